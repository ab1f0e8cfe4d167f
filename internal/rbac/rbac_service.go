package rbac

import (
	"sync"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListPermissions(role string) ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	loaded   bool
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy replaces the in-memory policy with the stored one.
func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	inherits, err := s.repo.GetRoleInheritances()
	if err != nil {
		return err
	}
	for _, in := range inherits {
		if _, err := s.enforcer.AddGroupingPolicy(in.Role, in.Parent); err != nil {
			return err
		}
	}

	perms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	for _, p := range perms {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.loaded = true
	s.logger.Info("rbac policy loaded",
		zap.Int("role_inheritances", len(inherits)),
		zap.Int("role_permissions", len(perms)),
	)
	return nil
}

func (s *service) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.loadPolicyUnlocked()
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	if err := s.ensureLoaded(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

// ListPermissions returns the effective permissions of role, inherited
// ones included.
func (s *service) ListPermissions(role string) ([]domain.PermissionResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	perms, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		resp = append(resp, domain.PermissionResponse{Role: p[0], Resource: p[1], Action: p[2]})
	}
	return resp, nil
}
