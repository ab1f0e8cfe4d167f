package app

import (
	"context"
	"fmt"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/activity"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/rbac"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/report"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the API, worker and consumer use,
// including the partial unique index on reports.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Employee{},
		&report.Report{},
		&kafka.OutboxEventModel{},
		&activity.Activity{},
		&rbac.RolePermission{},
		&rbac.RoleInheritance{},
	)
}

func seedPolicy(repo rbac.Repository) error {
	policy, err := rbac.DefaultPolicy()
	if err != nil {
		return err
	}
	perms, inherits, err := policy.Rows()
	if err != nil {
		return err
	}
	return repo.SeedIfEmpty(perms, inherits)
}

// seedAdmin registers the configured administrator unless the code is
// already taken, so an empty database can be logged into.
func seedAdmin(ctx context.Context, svc employee.Service, cfg config.Config, logger *zap.Logger) error {
	admin := cfg.BootstrapAdmin
	if admin.Code == "" || admin.Password == "" {
		return nil
	}

	_, err := svc.Register(ctx, employee.RegisterEmployeeRequest{
		Code:     admin.Code,
		Name:     admin.Name,
		Password: admin.Password,
		Role:     domain.RoleAdmin,
	})
	switch {
	case err == nil:
		logger.Info("bootstrap administrator registered", zap.String("code", admin.Code))
		return nil
	case apperror.KindOf(err) == apperror.KindDuplicate:
		return nil
	default:
		return fmt.Errorf("bootstrap administrator: %w", err)
	}
}
