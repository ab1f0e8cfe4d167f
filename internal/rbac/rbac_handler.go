package rbac

import (
	"net/http"
	"strings"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

type checkRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// Enforce answers whether the caller's own role may perform an action.
func (h *Handler) Enforce(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	allowed, err := h.service.Enforce(domain.EnforceRequest{
		Role:     principal.Role,
		Resource: strings.TrimSpace(req.Resource),
		Action:   strings.TrimSpace(req.Action),
	})
	if err != nil {
		h.logger.Error("enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "authorization check failed", nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) MyPermissions(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	perms, err := h.service.ListPermissions(principal.Role)
	if err != nil {
		h.logger.Error("list permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "failed to list permissions", nil)
		return
	}

	response.Success(c, http.StatusOK, perms, nil)
}
