package cascade

import (
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(authMiddleware)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.DELETE("/:code",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee", "delete"),
			handler.DeleteEmployee,
		)
	}
}
