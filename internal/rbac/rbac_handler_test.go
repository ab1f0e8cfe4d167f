package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// =========================================
// Mock Service
// =========================================

type mockService struct {
	lastReq domain.EnforceRequest
}

func (m *mockService) LoadPolicy() error {
	return nil
}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	m.lastReq = req
	if req.Resource == "report" && req.Action == "read" {
		return true, nil
	}
	return false, nil
}

func (m *mockService) ListPermissions(role string) ([]domain.PermissionResponse, error) {
	return []domain.PermissionResponse{{Role: role, Resource: "report", Action: "read"}}, nil
}

type envelope struct {
	Ok   bool                   `json:"ok"`
	Data domain.EnforceResponse `json:"data"`
}

func newRouter(service Service, principal *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.ContextEmployeeCode, principal.Code)
			c.Set(middleware.ContextRole, principal.Role)
		}
		c.Next()
	})
	router.POST("/rbac/enforce", handler.Enforce)
	return router
}

// =========================================
// TEST: Handler Enforce
// =========================================

func TestHandler_Enforce(t *testing.T) {
	service := &mockService{}
	router := newRouter(service, &domain.Principal{Code: "E001", Role: domain.RoleGeneral})

	jsonBody, _ := json.Marshal(map[string]string{"resource": "report", "action": "read"})
	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.True(t, resp.Data.Allowed)
	assert.Equal(t, domain.RoleGeneral, service.lastReq.Role)
}

func TestHandler_Enforce_MissingAction(t *testing.T) {
	router := newRouter(&mockService{}, &domain.Principal{Code: "E001", Role: domain.RoleGeneral})

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"report"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Enforce_Unauthenticated(t *testing.T) {
	router := newRouter(&mockService{}, nil)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"report","action":"read"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
