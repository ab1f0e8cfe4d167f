package employee

import (
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the employee endpoints. DELETE is owned by the
// cascade package because it also removes the employee's reports.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(authMiddleware)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.List,
		)

		employees.GET("/:code",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetByCode,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			middleware.Idempotency(rdb, 24*time.Hour),
			handler.Register,
		)

		employees.PUT("/:code",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee", "update"),
			handler.Update,
		)
	}
}
