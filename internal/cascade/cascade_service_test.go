package cascade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/cascade"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"
	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"
	employeeMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/mock"
	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"
	reportMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/mock"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   cascade.Service
	employees *employeeMock.MockService
	reports   *reportMock.MockService
}

var admin = domain.Principal{Code: "A001", Role: domain.RoleAdmin}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employees := employeeMock.NewMockService(ctrl)
	reports := reportMock.NewMockService(ctrl)

	return &serviceDeps{
		sqlMock:   sqlMock,
		service:   cascade.NewService(db, employees, reports, zaptest.NewLogger(t)),
		employees: employees,
		reports:   reports,
	}
}

// joinsOwnedUnit matches the unit handed to WithUnit: it must be the one
// opened by the coordinator.
func joinsOwnedUnit() gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		u, ok := x.(*dbtx.Unit)
		return ok && u.Owned() && u.Tx != nil
	})
}

func TestCascadeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes every report then the employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.employees.EXPECT().FindByCode(ctx, "E001").Return(&employee.EmployeeResponse{Code: "E001"}, nil)
		gomock.InOrder(
			deps.reports.EXPECT().WithUnit(joinsOwnedUnit()).Return(deps.reports),
			deps.reports.EXPECT().ListIDsByEmployee(ctx, "E001").Return([]uint{3, 4, 5}, nil),
			deps.reports.EXPECT().Delete(ctx, uint(3)).Return(nil),
			deps.reports.EXPECT().Delete(ctx, uint(4)).Return(nil),
			deps.reports.EXPECT().Delete(ctx, uint(5)).Return(nil),
			deps.employees.EXPECT().WithUnit(joinsOwnedUnit()).Return(deps.employees),
			deps.employees.EXPECT().Delete(ctx, "E001", admin).Return(nil),
		)

		result, err := deps.service.DeleteEmployee(ctx, "E001", admin)

		require.NoError(t, err)
		assert.Equal(t, cascade.CascadeResult{EmployeeCode: "E001", ReportsDeleted: 3}, result)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("report already gone is skipped", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.employees.EXPECT().FindByCode(ctx, "E001").Return(&employee.EmployeeResponse{Code: "E001"}, nil)
		deps.reports.EXPECT().WithUnit(gomock.Any()).Return(deps.reports)
		deps.reports.EXPECT().ListIDsByEmployee(ctx, "E001").Return([]uint{3, 4}, nil)
		deps.reports.EXPECT().Delete(ctx, uint(3)).Return(reporterrors.ErrReportNotFound)
		deps.reports.EXPECT().Delete(ctx, uint(4)).Return(nil)
		deps.employees.EXPECT().WithUnit(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().Delete(ctx, "E001", admin).Return(nil)

		result, err := deps.service.DeleteEmployee(ctx, "E001", admin)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ReportsDeleted)
	})

	t.Run("already deleted employee succeeds with zero reports", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.employees.EXPECT().FindByCode(ctx, "E001").
			Return(&employee.EmployeeResponse{Code: "E001", Deleted: true, Status: employee.StatusDeleted}, nil)
		deps.reports.EXPECT().WithUnit(gomock.Any()).Return(deps.reports)
		deps.reports.EXPECT().ListIDsByEmployee(ctx, "E001").Return(nil, nil)
		deps.employees.EXPECT().WithUnit(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().Delete(ctx, "E001", admin).Return(nil)

		result, err := deps.service.DeleteEmployee(ctx, "E001", admin)

		require.NoError(t, err)
		assert.Zero(t, result.ReportsDeleted)
	})

	t.Run("self delete -> LOGINCHECK_ERROR before anything", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.EXPECT().FindByCode(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.DeleteEmployee(ctx, "A001", admin)

		assert.ErrorIs(t, err, employeeerrors.ErrSelfDelete)
		assert.Equal(t, apperror.KindLoginCheck, apperror.KindOf(err))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown employee -> NOT_FOUND", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.EXPECT().FindByCode(ctx, "E404").Return(nil, nil)

		_, err := deps.service.DeleteEmployee(ctx, "E404", admin)

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("report failure rolls everything back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.employees.EXPECT().FindByCode(ctx, "E001").Return(&employee.EmployeeResponse{Code: "E001"}, nil)
		deps.reports.EXPECT().WithUnit(gomock.Any()).Return(deps.reports)
		deps.reports.EXPECT().ListIDsByEmployee(ctx, "E001").Return([]uint{3}, nil)
		deps.reports.EXPECT().Delete(ctx, uint(3)).Return(errors.New("db down"))
		deps.employees.EXPECT().WithUnit(gomock.Any()).Times(0)

		result, err := deps.service.DeleteEmployee(ctx, "E001", admin)

		assert.Error(t, err)
		assert.Zero(t, result.ReportsDeleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee failure rolls back the report deletes", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.employees.EXPECT().FindByCode(ctx, "E001").Return(&employee.EmployeeResponse{Code: "E001"}, nil)
		deps.reports.EXPECT().WithUnit(gomock.Any()).Return(deps.reports)
		deps.reports.EXPECT().ListIDsByEmployee(ctx, "E001").Return([]uint{3}, nil)
		deps.reports.EXPECT().Delete(ctx, uint(3)).Return(nil)
		deps.employees.EXPECT().WithUnit(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().Delete(ctx, "E001", admin).Return(errors.New("db down"))

		_, err := deps.service.DeleteEmployee(ctx, "E001", admin)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
