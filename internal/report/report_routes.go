package report

import (
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	reports := r.Group("/reports")
	reports.Use(authMiddleware)
	reports.Use(middleware.ContextLogger(logger))
	{
		reports.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.List,
		)

		reports.GET("/date-check",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.DateCheck,
		)

		reports.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.GetByID,
		)

		reports.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "report", "create"),
			middleware.Idempotency(rdb, 24*time.Hour),
			handler.Create,
		)

		reports.PUT("/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "report", "update"),
			handler.Update,
		)

		reports.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "report", "delete"),
			handler.Delete,
		)
	}
}
