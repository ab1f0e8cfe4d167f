package report

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actionReadAny   = "read_any"
	actionManageAny = "manage_any"
)

type Handler struct {
	service Service
	authz   middleware.RBACService
	logger  *zap.Logger
}

// NewHandler needs authz to tell administrators, who act on every report,
// from employees limited to their own.
func NewHandler(service Service, authz middleware.RBACService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, authz: authz, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
	}
	return p, ok
}

func (h *Handler) can(p domain.Principal, action string) (bool, error) {
	return h.authz.Enforce(domain.EnforceRequest{Role: p.Role, Resource: "report", Action: action})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create report bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req, p.Code)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	filter := ReportFilter{EmployeeCode: strings.TrimSpace(c.Query("employee_code"))}
	if v := c.Query("from"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("from"))
			return
		}
		filter.From = &d
	}
	if v := c.Query("to"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("to"))
			return
		}
		filter.To = &d
	}

	readAny, err := h.can(p, actionReadAny)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !readAny {
		filter.EmployeeCode = p.Code
	}

	resp, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, reporterrors.ErrInvalidReportID)
		return
	}

	resp, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp == nil {
		h.writeServiceError(c, reporterrors.ErrReportNotFound)
		return
	}

	if resp.EmployeeCode != p.Code {
		readAny, err := h.can(p, actionReadAny)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		if !readAny {
			h.writeServiceError(c, reporterrors.ErrReportNotFound)
			return
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// authorizeMutation loads the report and checks that p may change it.
func (h *Handler) authorizeMutation(c *gin.Context, p domain.Principal, id uint) bool {
	current, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return false
	}
	if current == nil {
		h.writeServiceError(c, reporterrors.ErrReportNotFound)
		return false
	}
	if current.EmployeeCode == p.Code {
		return true
	}

	manageAny, err := h.can(p, actionManageAny)
	if err != nil {
		h.writeServiceError(c, err)
		return false
	}
	if !manageAny {
		h.writeServiceError(c, reporterrors.ErrNotOwner)
		return false
	}
	return true
}

func (h *Handler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, reporterrors.ErrInvalidReportID)
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update report bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if !h.authorizeMutation(c, p, id) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, reporterrors.ErrInvalidReportID)
		return
	}

	if !h.authorizeMutation(c, p, id) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) DateCheck(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	date, err := parseRequiredDate(c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var excludeID uint
	if v := c.Query("exclude_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("exclude_id"))
			return
		}
		excludeID = uint(n)
	}

	code := strings.TrimSpace(c.Query("employee_code"))
	if code == "" {
		code = p.Code
	}
	if code != p.Code {
		readAny, err := h.can(p, actionReadAny)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		if !readAny {
			h.writeServiceError(c, reporterrors.ErrNotOwner)
			return
		}
	}

	dup, err := h.service.IsDateDuplicate(c.Request.Context(), code, date, excludeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DateCheckResponse{
		EmployeeCode: code,
		ReportDate:   date.Format(dateLayout),
		Duplicate:    dup,
	}, nil)
}
