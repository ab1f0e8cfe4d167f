package report_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/report"
	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"
	reportMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/mock"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// roleAuthz grants the *_any actions to administrators only.
type roleAuthz struct{}

func (roleAuthz) Enforce(req domain.EnforceRequest) (bool, error) {
	if req.Action == "read_any" || req.Action == "manage_any" {
		return req.Role == domain.RoleAdmin, nil
	}
	return true, nil
}

var (
	general = domain.Principal{Code: "E001", Role: domain.RoleGeneral}
	admin   = domain.Principal{Code: "A001", Role: domain.RoleAdmin}
)

func setupRouter(svc report.Service, p *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	h := report.NewHandler(svc, roleAuthz{})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.ContextEmployeeCode, p.Code)
			c.Set(middleware.ContextRole, p.Role)
		}
		c.Next()
	})
	r.GET("/reports", h.List)
	r.GET("/reports/date-check", h.DateCheck)
	r.GET("/reports/:id", h.GetByID)
	r.POST("/reports", h.Create)
	r.PUT("/reports/:id", h.Update)
	r.DELETE("/reports/:id", h.Delete)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func ownReport(id uint, code string) *report.ReportResponse {
	return &report.ReportResponse{ID: id, EmployeeCode: code, ReportDate: "2024-04-01", Title: "t", Content: "c", Status: report.StatusActive}
}

func TestReportHandler_Create(t *testing.T) {
	t.Run("author is the caller", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), report.CreateReportRequest{ReportDate: "2024-04-01", Title: "t", Content: "c"}, "E001").
			Return(*ownReport(1, "E001"), nil)

		w := serve(setupRouter(svc, &general), http.MethodPost, "/reports",
			`{"report_date":"2024-04-01","title":"t","content":"c"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate date -> 409 DATECHECK_ERROR", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), "E001").Return(report.ReportResponse{}, reporterrors.ErrDateDuplicate)

		w := serve(setupRouter(svc, &general), http.MethodPost, "/reports",
			`{"report_date":"2024-04-01","title":"t","content":"c"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeDateCheck, decode(t, w).Error.Code)
	})

	t.Run("no principal -> 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)

		w := serve(setupRouter(svc, nil), http.MethodPost, "/reports", `{}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReportHandler_List(t *testing.T) {
	t.Run("general user sees only own reports", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().
			FindAll(gomock.Any(), report.ReportFilter{EmployeeCode: "E001"}).
			Return([]report.ReportResponse{*ownReport(1, "E001")}, nil)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports?employee_code=E002", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin lists everyone and paginates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().
			FindAll(gomock.Any(), report.ReportFilter{}).
			Return([]report.ReportResponse{*ownReport(1, "E001"), *ownReport(2, "E002"), *ownReport(3, "E003")}, nil)

		w := serve(setupRouter(svc, &admin), http.MethodGet, "/reports?page=2&page_size=2", "")

		require.Equal(t, http.StatusOK, w.Code)
		var items []report.ReportResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, uint(3), items[0].ID)
	})

	t.Run("bad from date -> 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)

		w := serve(setupRouter(svc, &admin), http.MethodGet, "/reports?from=April", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandler_GetByID(t *testing.T) {
	t.Run("someone else's report is hidden from general users", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(9)).Return(ownReport(9, "E002"), nil)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports/9", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin reads any report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(9)).Return(ownReport(9, "E002"), nil)

		w := serve(setupRouter(svc, &admin), http.MethodGet, "/reports/9", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id -> 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandler_Mutations(t *testing.T) {
	t.Run("owner updates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(1)).Return(ownReport(1, "E001"), nil)
		svc.EXPECT().
			Update(gomock.Any(), uint(1), report.UpdateReportRequest{Title: "n", Content: "c"}).
			Return(*ownReport(1, "E001"), nil)

		w := serve(setupRouter(svc, &general), http.MethodPut, "/reports/1", `{"title":"n","content":"c"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-owner update -> 403", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(1)).Return(ownReport(1, "E002"), nil)
		svc.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := serve(setupRouter(svc, &general), http.MethodPut, "/reports/1", `{"title":"n","content":"c"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperror.CodeForbidden, decode(t, w).Error.Code)
	})

	t.Run("admin deletes another employee's report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(1)).Return(ownReport(1, "E002"), nil)
		svc.EXPECT().Delete(gomock.Any(), uint(1)).Return(nil)

		w := serve(setupRouter(svc, &admin), http.MethodDelete, "/reports/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete of a missing report -> 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		svc.EXPECT().FindByID(gomock.Any(), uint(5)).Return(nil, nil)

		w := serve(setupRouter(svc, &general), http.MethodDelete, "/reports/5", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, decode(t, w).Error.Code)
	})
}

func TestReportHandler_DateCheck(t *testing.T) {
	t.Run("checks the caller by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)
		date, _ := report.ParseDate("2024-04-01")
		svc.EXPECT().IsDateDuplicate(gomock.Any(), "E001", date, uint(3)).Return(true, nil)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports/date-check?date=2024-04-01&exclude_id=3", "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp report.DateCheckResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.True(t, resp.Duplicate)
	})

	t.Run("missing date -> BLANK_ERROR", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports/date-check", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeBlank, decode(t, w).Error.Code)
	})

	t.Run("general user cannot probe others", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := reportMock.NewMockService(ctrl)

		w := serve(setupRouter(svc, &general), http.MethodGet, "/reports/date-check?date=2024-04-01&employee_code=E002", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
