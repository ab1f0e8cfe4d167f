package report

import (
	"errors"
	"strings"

	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reporterrors.ErrReportNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return reporterrors.ErrDateDuplicate.WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_reports_employee_date" {
			return reporterrors.ErrDateDuplicate.WithCause(err)
		}
		if pgErr.Code == "23503" {
			return reporterrors.ErrAuthorNotFound.WithCause(err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_reports_employee_date") {
		return reporterrors.ErrDateDuplicate.WithCause(err)
	}
	if strings.Contains(errMsg, "unique constraint failed: reports.employee_code") {
		return reporterrors.ErrDateDuplicate.WithCause(err)
	}

	return err
}
