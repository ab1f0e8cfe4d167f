package middleware

import (
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"

	"github.com/gin-gonic/gin"
)

// CurrentPrincipal returns the employee set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	code := c.GetString(ContextEmployeeCode)
	if code == "" {
		return domain.Principal{}, false
	}
	return domain.Principal{
		Code: code,
		Role: c.GetString(ContextRole),
	}, true
}
