package rbac

import (
	"errors"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================
// Mock Repository
// =========================================

type mockRepo struct {
	perms    []RolePermission
	inherits []RoleInheritance
	err      error
	calls    int
}

func (m *mockRepo) GetRolePermissions() ([]RolePermission, error) {
	m.calls++
	return m.perms, m.err
}

func (m *mockRepo) GetRoleInheritances() ([]RoleInheritance, error) {
	return m.inherits, m.err
}

func (m *mockRepo) SeedIfEmpty(perms []RolePermission, inherits []RoleInheritance) error {
	m.perms = perms
	m.inherits = inherits
	return nil
}

func newDefaultRepo(t *testing.T) *mockRepo {
	policy, err := DefaultPolicy()
	require.NoError(t, err)
	perms, inherits, err := policy.Rows()
	require.NoError(t, err)
	return &mockRepo{perms: perms, inherits: inherits}
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	return e
}

// =========================================
// TEST: Load + Enforce
// =========================================

func TestRBACService_Enforce(t *testing.T) {
	repo := newDefaultRepo(t)
	service := NewService(repo, newTestEnforcer(t))

	require.NoError(t, service.LoadPolicy())

	tests := []struct {
		name    string
		req     domain.EnforceRequest
		allowed bool
	}{
		{"general creates own report", domain.EnforceRequest{Role: domain.RoleGeneral, Resource: "report", Action: "create"}, true},
		{"general cannot register employees", domain.EnforceRequest{Role: domain.RoleGeneral, Resource: "employee", Action: "create"}, false},
		{"general cannot read all reports", domain.EnforceRequest{Role: domain.RoleGeneral, Resource: "report", Action: "read_any"}, false},
		{"admin deletes employees", domain.EnforceRequest{Role: domain.RoleAdmin, Resource: "employee", Action: "delete"}, true},
		{"admin inherits report create", domain.EnforceRequest{Role: domain.RoleAdmin, Resource: "report", Action: "create"}, true},
		{"unknown role", domain.EnforceRequest{Role: "GUEST", Resource: "report", Action: "read"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := service.Enforce(tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestRBACService_Enforce_LoadsLazily(t *testing.T) {
	repo := newDefaultRepo(t)
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{Role: domain.RoleGeneral, Resource: "report", Action: "read"})
	assert.NoError(t, err)
	assert.True(t, allowed)

	_, err = service.Enforce(domain.EnforceRequest{Role: domain.RoleGeneral, Resource: "report", Action: "update"})
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestRBACService_Enforce_RepoError(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{Role: domain.RoleAdmin, Resource: "employee", Action: "read"})
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRBACService_ListPermissions_IncludesInherited(t *testing.T) {
	repo := newDefaultRepo(t)
	service := NewService(repo, newTestEnforcer(t))

	perms, err := service.ListPermissions(domain.RoleAdmin)
	require.NoError(t, err)

	var resources []string
	for _, p := range perms {
		resources = append(resources, p.Resource+":"+p.Action)
	}
	assert.Contains(t, resources, "employee:delete")
	assert.Contains(t, resources, "report:create")
	assert.Contains(t, resources, "activity:read")
}

func TestPolicy_Rows_RejectsMalformedEntry(t *testing.T) {
	policy, err := ParsePolicy([]byte("permissions:\n  GENERAL:\n    - report\n"))
	require.NoError(t, err)

	_, _, err = policy.Rows()
	assert.Error(t, err)
}
