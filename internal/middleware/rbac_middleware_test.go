package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRBAC struct {
	allow map[string]bool
	err   error
}

func (f fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allow[req.Role+":"+req.Resource+":"+req.Action], f.err
}

func serveRBAC(service RBACService, role string) int {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/employees", func(c *gin.Context) {
		if role != "" {
			c.Set(ContextRole, role)
		}
		c.Next()
	}, RBACAuthorize(service, "employee", "read"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees", nil))
	return w.Code
}

func TestRBACAuthorize(t *testing.T) {
	service := fakeRBAC{allow: map[string]bool{"ADMIN:employee:read": true}}

	assert.Equal(t, http.StatusOK, serveRBAC(service, domain.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serveRBAC(service, domain.RoleGeneral))
	assert.Equal(t, http.StatusUnauthorized, serveRBAC(service, ""))
	assert.Equal(t, http.StatusInternalServerError, serveRBAC(fakeRBAC{err: errors.New("casbin")}, domain.RoleAdmin))
}
