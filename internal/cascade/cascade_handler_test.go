package cascade_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/cascade"
	cascadeMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/cascade/mock"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupRouter(svc cascade.Service, p *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.ContextEmployeeCode, p.Code)
			c.Set(middleware.ContextRole, p.Role)
		}
		c.Next()
	})
	r.DELETE("/employees/:code", cascade.NewHandler(svc).DeleteEmployee)
	return r
}

func TestCascadeHandler_DeleteEmployee(t *testing.T) {
	t.Run("success reports the count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := cascadeMock.NewMockService(ctrl)
		svc.EXPECT().
			DeleteEmployee(gomock.Any(), "E001", admin).
			Return(cascade.CascadeResult{EmployeeCode: "E001", ReportsDeleted: 2}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc, &admin).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/E001", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data cascade.CascadeResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, 2, env.Data.ReportsDeleted)
	})

	t.Run("self delete -> 403 LOGINCHECK_ERROR", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := cascadeMock.NewMockService(ctrl)
		svc.EXPECT().
			DeleteEmployee(gomock.Any(), "A001", admin).
			Return(cascade.CascadeResult{EmployeeCode: "A001"}, employeeerrors.ErrSelfDelete)

		w := httptest.NewRecorder()
		setupRouter(svc, &admin).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/A001", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, apperror.CodeLoginCheck, env.Error.Code)
	})

	t.Run("no principal -> 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := cascadeMock.NewMockService(ctrl)
		svc.EXPECT().DeleteEmployee(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := httptest.NewRecorder()
		setupRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/E001", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
