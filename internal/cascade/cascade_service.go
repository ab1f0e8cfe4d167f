// Package cascade deletes an employee together with every report the
// employee authored, in one transaction.
package cascade

import (
	"context"
	"database/sql"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"
	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/report"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/contextutil"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"go.uber.org/zap"
)

//go:generate mockgen -source=cascade_service.go -destination=mock/cascade_service_mock.go -package=mock
type Service interface {
	DeleteEmployee(ctx context.Context, code string, actor domain.Principal) (CascadeResult, error)
}

type service struct {
	db        *sql.DB
	employees employee.Service
	reports   report.Service
	logger    *zap.Logger
}

func NewService(db *sql.DB, employees employee.Service, reports report.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("cascade.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cascade.service")
	}
	return &service{
		db:        db,
		employees: employees,
		reports:   reports,
		logger:    l,
	}
}

func (s *service) DeleteEmployee(ctx context.Context, code string, actor domain.Principal) (CascadeResult, error) {
	rid := contextutil.GetRequestID(ctx)
	result := CascadeResult{EmployeeCode: code}

	s.logger.Debug("cascade delete requested",
		zap.String("request_id", rid),
		zap.String("code", code),
		zap.String("actor", actor.Code),
	)

	if code == actor.Code {
		s.logger.Warn("cascade delete rejected: self delete", zap.String("code", code))
		return result, employeeerrors.ErrSelfDelete
	}

	target, err := s.employees.FindByCode(ctx, code)
	if err != nil {
		return result, err
	}
	if target == nil {
		return result, employeeerrors.ErrEmployeeNotFound
	}

	unit, err := dbtx.Begin(ctx, s.db, nil)
	if err != nil {
		s.logger.Error("cascade delete begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return result, err
	}
	defer unit.Rollback()

	reports := s.reports.WithUnit(unit)
	ids, err := reports.ListIDsByEmployee(ctx, code)
	if err != nil {
		s.logger.Error("cascade delete list reports failed", zap.String("code", code), zap.Error(err))
		return result, err
	}

	for _, id := range ids {
		err := reports.Delete(ctx, id)
		if apperror.KindOf(err) == apperror.KindNotFound {
			s.logger.Debug("cascade delete report already gone", zap.Uint("report_id", id))
			continue
		}
		if err != nil {
			s.logger.Error("cascade delete report failed",
				zap.String("code", code),
				zap.Uint("report_id", id),
				zap.Error(err),
			)
			return CascadeResult{EmployeeCode: code}, err
		}
		result.ReportsDeleted++
	}

	if err := s.employees.WithUnit(unit).Delete(ctx, code, actor); err != nil {
		return CascadeResult{EmployeeCode: code}, err
	}

	if err := unit.Commit(); err != nil {
		s.logger.Error("cascade delete commit failed", zap.String("request_id", rid), zap.Error(err))
		return CascadeResult{EmployeeCode: code}, err
	}

	s.logger.Info("cascade delete success",
		zap.String("request_id", rid),
		zap.String("code", code),
		zap.Int("reports_deleted", result.ReportsDeleted),
	)
	return result, nil
}
