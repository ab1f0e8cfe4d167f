package activity

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
	activities := r.Group("/activities")
	activities.Use(authMiddleware)
	activities.Use(middleware.ContextLogger(logger))
	{
		activities.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "activity", "read"),
			handler.List,
		)
	}
}
