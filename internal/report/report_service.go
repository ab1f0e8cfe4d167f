package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/events"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/contextutil"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ReportListKeyPrefix = "reports:list:"
	reportListCacheTTL  = 5 * time.Minute
)

// ReportListKey is the cache key of an unbounded listing, either for one
// employee or for everyone when employeeCode is empty.
func ReportListKey(employeeCode string) string {
	if employeeCode == "" {
		return ReportListKeyPrefix + "all"
	}
	return ReportListKeyPrefix + "emp:" + employeeCode
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateReportRequest, authorCode string) (ReportResponse, error)
	Update(ctx context.Context, id uint, req UpdateReportRequest) (ReportResponse, error)
	Delete(ctx context.Context, id uint) error
	IsDateDuplicate(ctx context.Context, employeeCode string, date time.Time, excludeID uint) (bool, error)
	FindAll(ctx context.Context, filter ReportFilter) ([]ReportResponse, error)
	// FindByID returns nil, nil for missing and deleted reports.
	FindByID(ctx context.Context, id uint) (*ReportResponse, error)
	ListIDsByEmployee(ctx context.Context, employeeCode string) ([]uint, error)
	WithUnit(unit *dbtx.Unit) Service
}

type service struct {
	db       *sql.DB
	unit     *dbtx.Unit
	repo     Repository
	policies Policies
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	policies Policies,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if policies.Date == "" {
		policies.Date = DateImmutable
	}
	if policies.Delete == "" {
		policies.Delete = DeleteLogical
	}
	return &service{
		db:       db,
		repo:     repo,
		policies: policies,
		outbox:   outboxRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) WithUnit(unit *dbtx.Unit) Service {
	cp := *s
	cp.unit = unit
	return &cp
}

func (s *service) Create(ctx context.Context, req CreateReportRequest, authorCode string) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create report requested",
		zap.String("request_id", rid),
		zap.String("employee_code", authorCode),
		zap.String("report_date", req.ReportDate),
	)

	if err := validateBody(req.Title, req.Content); err != nil {
		return ReportResponse{}, err
	}
	date, err := parseRequiredDate(req.ReportDate)
	if err != nil {
		return ReportResponse{}, err
	}

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("create report begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ReportResponse{}, err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	active, err := qtx.EmployeeActive(ctx, authorCode)
	if err != nil {
		s.logger.Error("create report author lookup failed", zap.Error(err))
		return ReportResponse{}, err
	}
	if !active {
		s.logger.Warn("create report author not found", zap.String("employee_code", authorCode))
		return ReportResponse{}, reporterrors.ErrAuthorNotFound
	}

	dup, err := qtx.ExistsOnDate(ctx, authorCode, date, 0)
	if err != nil {
		s.logger.Error("create report date check failed", zap.Error(err))
		return ReportResponse{}, err
	}
	if dup {
		s.logger.Warn("create report date already taken",
			zap.String("employee_code", authorCode),
			zap.String("report_date", req.ReportDate),
		)
		return ReportResponse{}, reporterrors.ErrDateDuplicate
	}

	now := s.now()
	rep := &Report{
		EmployeeCode: authorCode,
		ReportDate:   date,
		Title:        req.Title,
		Content:      req.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := qtx.Create(ctx, rep); err != nil {
		s.logger.Error("create report persist failed", zap.Error(err))
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, unit, events.ReportCreated, rep, ""); err != nil {
		return ReportResponse{}, err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx, authorCode) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("create report commit failed", zap.String("request_id", rid), zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("create report success",
		zap.String("request_id", rid),
		zap.Uint("report_id", rep.ID),
	)
	return mapToResponse(*rep), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateReportRequest) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update report requested",
		zap.String("request_id", rid),
		zap.Uint("report_id", id),
	)

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("update report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	rep, err := qtx.FindActiveByID(ctx, id)
	if err != nil {
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := validateBody(req.Title, req.Content); err != nil {
		return ReportResponse{}, err
	}

	if req.ReportDate != "" {
		date, err := parseRequiredDate(req.ReportDate)
		if err != nil {
			return ReportResponse{}, err
		}
		if !sameDay(date, rep.ReportDate) {
			if s.policies.Date == DateImmutable {
				return ReportResponse{}, reporterrors.ErrDateImmutable
			}
			dup, err := qtx.ExistsOnDate(ctx, rep.EmployeeCode, date, rep.ID)
			if err != nil {
				s.logger.Error("update report date check failed", zap.Error(err))
				return ReportResponse{}, err
			}
			if dup {
				return ReportResponse{}, reporterrors.ErrDateDuplicate
			}
			rep.ReportDate = date
		}
	}

	rep.Title = req.Title
	rep.Content = req.Content
	rep.UpdatedAt = s.now()

	if err := qtx.Update(ctx, rep); err != nil {
		s.logger.Error("update report persist failed", zap.Error(err))
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, unit, events.ReportUpdated, rep, ""); err != nil {
		return ReportResponse{}, err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx, rep.EmployeeCode) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("update report commit failed", zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("update report success", zap.Uint("report_id", id))
	return mapToResponse(*rep), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete report requested",
		zap.String("request_id", rid),
		zap.Uint("report_id", id),
		zap.String("policy", string(s.policies.Delete)),
	)

	unit, err := dbtx.Begin(ctx, s.db, s.unit)
	if err != nil {
		s.logger.Error("delete report begin tx failed", zap.Error(err))
		return err
	}
	defer unit.Rollback()

	qtx := s.repo.WithTx(unit.Tx)
	rep, err := qtx.FindActiveByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	now := s.now()
	switch s.policies.Delete {
	case DeletePhysical:
		err = qtx.HardDelete(ctx, id)
	default:
		err = qtx.SoftDelete(ctx, id, now)
	}
	if err != nil {
		s.logger.Error("delete report failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	rep.Deleted = 1
	rep.UpdatedAt = now

	if err := s.enqueue(ctx, unit, events.ReportDeleted, rep, string(s.policies.Delete)); err != nil {
		return err
	}

	unit.AfterCommit(func() { s.invalidateListCache(ctx, rep.EmployeeCode) })
	if err := unit.Commit(); err != nil {
		s.logger.Error("delete report commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete report success", zap.Uint("report_id", id))
	return nil
}

func (s *service) IsDateDuplicate(ctx context.Context, employeeCode string, date time.Time, excludeID uint) (bool, error) {
	dup, err := s.repo.ExistsOnDate(ctx, employeeCode, date, excludeID)
	if err != nil {
		s.logger.Error("report date check failed",
			zap.String("employee_code", employeeCode),
			zap.Error(err),
		)
		return false, err
	}
	return dup, nil
}

func (s *service) FindAll(ctx context.Context, filter ReportFilter) ([]ReportResponse, error) {
	cacheable := filter.From == nil && filter.To == nil
	cacheKey := ReportListKey(filter.EmployeeCode)

	if cacheable && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []ReportResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	load := func() (interface{}, error) {
		reps, err := s.repo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("find all reports failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(reps)
		if cacheable && s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, reportListCacheTTL)
			}
		}
		return resp, nil
	}

	var (
		v   interface{}
		err error
	)
	if cacheable {
		v, err, _ = s.sf.Do(cacheKey, load)
	} else {
		v, err = load()
	}
	if err != nil {
		return nil, err
	}

	return v.([]ReportResponse), nil
}

func (s *service) FindByID(ctx context.Context, id uint) (*ReportResponse, error) {
	rep, err := s.repo.FindActiveByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("find report by id failed", zap.Uint("report_id", id), zap.Error(err))
		return nil, err
	}

	resp := mapToResponse(*rep)
	return &resp, nil
}

func (s *service) ListIDsByEmployee(ctx context.Context, employeeCode string) ([]uint, error) {
	repo := s.repo
	if s.unit != nil {
		repo = repo.WithTx(s.unit.Tx)
	}
	return repo.ListIDsByEmployee(ctx, employeeCode)
}

func (s *service) enqueue(ctx context.Context, unit *dbtx.Unit, eventType string, rep *Report, deletePolicy string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.ReportLifecycleEvent{
		EventType:    eventType,
		RequestID:    rid,
		ReportID:     rep.ID,
		EmployeeCode: rep.EmployeeCode,
		ReportDate:   rep.ReportDate.Format(dateLayout),
		DeletePolicy: deletePolicy,
		ActorCode:    contextutil.GetUserID(ctx),
		OccurredAt:   rep.UpdatedAt,
	}
	row, err := kafka.NewEvent(rid, "report", strconv.FormatUint(uint64(rep.ID), 10), eventType, events.ReportLifecycleTopic, event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(unit.Tx).Create(ctx, row); err != nil {
		s.logger.Error("report outbox persist failed",
			zap.Uint("report_id", rep.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateListCache(ctx context.Context, employeeCode string) {
	if s.rdb == nil {
		return
	}
	keys := []string{ReportListKey(""), ReportListKey(employeeCode)}
	if err := s.rdb.Del(context.WithoutCancel(ctx), keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate report list cache",
			zap.Error(err),
			zap.Strings("keys", keys),
		)
	}
}

func mapToResponse(rep Report) ReportResponse {
	return ReportResponse{
		ID:           rep.ID,
		EmployeeCode: rep.EmployeeCode,
		ReportDate:   rep.ReportDate.Format(dateLayout),
		Title:        rep.Title,
		Content:      rep.Content,
		Status:       rep.Status(),
		CreatedAt:    rep.CreatedAt,
		UpdatedAt:    rep.UpdatedAt,
	}
}

func mapToListResponse(reps []Report) []ReportResponse {
	res := make([]ReportResponse, len(reps))
	for i, r := range reps {
		res[i] = mapToResponse(r)
	}
	return res
}
