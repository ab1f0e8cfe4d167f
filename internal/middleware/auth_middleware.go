package middleware

import (
	"errors"
	"strings"

	autherrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/auth/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/contextutil"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeCode = "employee_code"
	ContextRole         = "role"
)

// TokenParser resolves an access token to the acting employee.
type TokenParser interface {
	ParseAccessToken(token string) (domain.Principal, error)
}

func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWithAppError(c, autherrors.ErrMissingPrincipal)
			return
		}

		principal, err := parser.ParseAccessToken(tokenString)
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				appErr = autherrors.ErrInvalidToken
			}
			abortWithAppError(c, appErr)
			return
		}

		c.Set(ContextEmployeeCode, principal.Code)
		c.Set(ContextRole, principal.Role)

		ctx := contextutil.WithUserID(c.Request.Context(), principal.Code)
		ctx = contextutil.WithRole(ctx, principal.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortWithAppError(c *gin.Context, appErr *apperror.AppError) {
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
	c.Abort()
}
