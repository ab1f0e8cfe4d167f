package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/events"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/contextutil"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeListKey      = "employees:list"
	employeeListCacheTTL = 10 * time.Minute
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, code string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, code string, actor domain.Principal) error
	List(ctx context.Context) ([]EmployeeResponse, error)
	// FindByCode returns nil, nil for an unknown code. Deleted employees
	// are returned with Deleted set.
	FindByCode(ctx context.Context, code string) (*EmployeeResponse, error)
	// WithUnit returns a view of the service whose mutations join unit
	// instead of opening their own transaction.
	WithUnit(unit *dbtx.Unit) Service
}

type service struct {
	db     *sql.DB
	unit   *dbtx.Unit
	repo   Repository
	hasher PasswordHasher
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	hasher PasswordHasher,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		hasher: hasher,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) WithUnit(unit *dbtx.Unit) Service {
	cp := *s
	cp.unit = unit
	return &cp
}

func (s *service) Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register employee requested",
		zap.String("request_id", rid),
		zap.String("code", req.Code),
		zap.String("role", req.Role),
	)

	if req.Code == "" {
		return EmployeeResponse{}, employeeerrors.ErrCodeBlank
	}
	if err := validateNewPassword(req.Password); err != nil {
		return EmployeeResponse{}, err
	}
	if err := validateName(req.Name); err != nil {
		return EmployeeResponse{}, err
	}
	if err := validateRole(req.Role); err != nil {
		return EmployeeResponse{}, err
	}

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("register employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	if _, err := qtx.FindByCode(ctx, req.Code); err == nil {
		s.logger.Warn("register employee code already used", zap.String("code", req.Code))
		return EmployeeResponse{}, employeeerrors.ErrCodeDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("register employee duplicate check failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("register employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	now := s.now()
	empl := &Employee{
		Code:         req.Code,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("register employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, unit, events.EmployeeRegistered, empl); err != nil {
		return EmployeeResponse{}, err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("register employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("register employee success",
		zap.String("request_id", rid),
		zap.String("code", empl.Code),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, code string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("code", code),
	)

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	empl, err := qtx.FindByCode(ctx, code)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.String("code", code), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if empl.IsDeleted() {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	if err := validateName(req.Name); err != nil {
		return EmployeeResponse{}, err
	}
	if req.Password != "" {
		if err := validateChangedPassword(req.Password); err != nil {
			return EmployeeResponse{}, err
		}
	}
	if err := validateRole(req.Role); err != nil {
		return EmployeeResponse{}, err
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			s.logger.Error("update employee hash password failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		empl.PasswordHash = hash
	}
	empl.Name = req.Name
	empl.Role = req.Role
	empl.UpdatedAt = s.now()

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, unit, events.EmployeeUpdated, empl); err != nil {
		return EmployeeResponse{}, err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("code", code))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, code string, actor domain.Principal) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("code", code),
		zap.String("actor", actor.Code),
	)

	if code == actor.Code {
		s.logger.Warn("delete employee rejected: self delete", zap.String("code", code))
		return employeeerrors.ErrSelfDelete
	}

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	empl, err := qtx.FindByCode(ctx, code)
	if err != nil {
		return mapRepositoryError(err)
	}
	if empl.IsDeleted() {
		s.logger.Info("delete employee already deleted", zap.String("code", code))
		return nil
	}

	now := s.now()
	if err := qtx.SoftDelete(ctx, code, now); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	empl.Deleted = 1
	empl.UpdatedAt = now

	if err := s.enqueue(ctx, unit, events.EmployeeDeleted, empl); err != nil {
		return err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete employee success", zap.String("code", code))
	return nil
}

func (s *service) List(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeListKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeListKey, func() (interface{}, error) {
		empls, err := s.repo.FindAllActive(ctx)
		if err != nil {
			s.logger.Error("list employees failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeListKey, jsonData, employeeListCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) FindByCode(ctx context.Context, code string) (*EmployeeResponse, error) {
	empl, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("find employee by code failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	resp := mapToResponse(*empl)
	return &resp, nil
}

func (s *service) enqueue(ctx context.Context, unit *dbtx.Unit, eventType string, empl *Employee) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EmployeeLifecycleEvent{
		EventType:    eventType,
		RequestID:    rid,
		EmployeeCode: empl.Code,
		Role:         empl.Role,
		ActorCode:    contextutil.GetUserID(ctx),
		OccurredAt:   empl.UpdatedAt,
	}
	row, err := kafka.NewEvent(rid, "employee", empl.Code, eventType, events.EmployeeLifecycleTopic, event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(unit.Tx).Create(ctx, row); err != nil {
		s.logger.Error("employee outbox persist failed",
			zap.String("code", empl.Code),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.WithoutCancel(ctx), EmployeeListKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee list cache",
			zap.Error(err),
			zap.String("key", EmployeeListKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		Code:      empl.Code,
		Name:      empl.Name,
		Role:      empl.Role,
		Deleted:   empl.IsDeleted(),
		Status:    empl.Status(),
		CreatedAt: empl.CreatedAt,
		UpdatedAt: empl.UpdatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
