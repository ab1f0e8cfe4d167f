package auth

import (
	"net/http"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	platform "github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/request"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// CookieOptions controls the cookies handed to browser clients.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	service Service
	cookies CookieOptions
	logger  *zap.Logger
}

func NewHandler(s Service, cookies CookieOptions, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookies: cookies, logger: l}
}

func (ctrl *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (ctrl *Handler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ctrl.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isWeb(c *gin.Context) bool {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	return platform.IsWebClient(clientType)
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.writeError(c, apperror.MapValidationError(err))
		return
	}

	token, refreshToken, userResp, err := ctrl.service.Login(c.Request.Context(), req.Code, req.Password)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	if isWeb(c) {
		ctrl.setCookie(c, accessCookie, token, ctrl.cookies.AccessTTL)
		ctrl.setCookie(c, refreshCookie, refreshToken, ctrl.cookies.RefreshTTL)
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee":      userResp,
		"access_token":  token,
		"refresh_token": refreshToken,
	}, nil)
}

func (ctrl *Handler) Me(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		ctrl.writeError(c, apperror.ErrUnauthorized)
		return
	}

	userResp, err := ctrl.service.GetMe(c.Request.Context(), p.Code)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (ctrl *Handler) Logout(c *gin.Context) {
	ctrl.setCookie(c, accessCookie, "", 0)
	ctrl.setCookie(c, refreshCookie, "", 0)
	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func (ctrl *Handler) RefreshToken(c *gin.Context) {
	web := isWeb(c)

	var refreshToken string
	if web {
		var err error
		refreshToken, err = c.Cookie(refreshCookie)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Missing refresh token", nil)
			return
		}
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			ctrl.writeError(c, apperror.MapValidationError(err))
			return
		}
		refreshToken = req.RefreshToken
	}

	newAccess, newRefresh, userResp, err := ctrl.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		ctrl.logger.Warn("refresh token rejected", zap.Error(err))
		ctrl.writeError(c, err)
		return
	}

	if web {
		ctrl.setCookie(c, accessCookie, newAccess, ctrl.cookies.AccessTTL)
		ctrl.setCookie(c, refreshCookie, newRefresh, ctrl.cookies.RefreshTTL)
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee":      userResp,
		"access_token":  newAccess,
		"refresh_token": newRefresh,
	}, nil)
}
