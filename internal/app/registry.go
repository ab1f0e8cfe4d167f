package app

import (
	"context"
	"database/sql"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/activity"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/auth"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/cascade"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/rbac"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/rbac/infra"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	datePolicy, err := report.ParseDatePolicy(cfg.Report.DatePolicy)
	if err != nil {
		return err
	}
	deletePolicy, err := report.ParseDeletePolicy(cfg.Report.DeletePolicy)
	if err != nil {
		return err
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	activityRepo := activity.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	if err := seedPolicy(rbacRepo); err != nil {
		return err
	}
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(employeeRepo, tokens, logger)
	employeeService := employee.NewService(db, employeeRepo, employee.NewBcryptHasher(), outboxRepo, rdb, logger)
	reportService := report.NewService(db, reportRepo, report.Policies{Date: datePolicy, Delete: deletePolicy}, outboxRepo, rdb, logger)
	cascadeService := cascade.NewService(db, employeeService, reportService, logger)
	activityService := activity.NewService(activityRepo, logger)

	if err := seedAdmin(context.Background(), employeeService, cfg, logger); err != nil {
		return err
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	reportHandler := report.NewHandler(reportService, rbacService, logger)
	cascadeHandler := cascade.NewHandler(cascadeService, logger)
	activityHandler := activity.NewHandler(activityService)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	authMiddleware := middleware.AuthMiddleware(tokens)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		employee.RegisterRoutes(api, employeeHandler, authMiddleware, rbacService, rdb, logger)
		cascade.RegisterRoutes(api, cascadeHandler, authMiddleware, rbacService, logger)
		report.RegisterRoutes(api, reportHandler, authMiddleware, rbacService, rdb, logger)
		activity.RegisterRoutes(api, activityHandler, authMiddleware, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
	}

	return nil
}
