package cascade

import (
	"net/http"
	"strings"

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
	l := zap.L().Named("cascade.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cascade.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	actor, ok := middleware.CurrentPrincipal(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	result, err := h.service.DeleteEmployee(c.Request.Context(), code, actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("cascade request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
