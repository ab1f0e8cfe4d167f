package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return employeeerrors.ErrCodeConflict.WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "employees_pkey" {
			return employeeerrors.ErrCodeConflict.WithCause(err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "employees_pkey") {
		return employeeerrors.ErrCodeConflict.WithCause(err)
	}
	if strings.Contains(errMsg, "unique constraint failed: employees.code") {
		return employeeerrors.ErrCodeConflict.WithCause(err)
	}

	return err
}
