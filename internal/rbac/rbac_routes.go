package rbac

import (
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(authMiddleware)
	{
		group.POST("/enforce", middleware.RateLimitByUser(5, 20), handler.Enforce)
		group.GET("/permissions", middleware.RateLimitByUser(2, 5), handler.MyPermissions)
	}
}
