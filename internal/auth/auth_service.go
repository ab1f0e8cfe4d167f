package auth

import (
	"context"
	"errors"

	autherrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/auth/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, code, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, code string) (*AuthResponse, error)
}

type service struct {
	employeeRepo employee.Repository
	tokens       *TokenIssuer
	logger       *zap.Logger
}

func NewService(employeeRepo employee.Repository, tokens *TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{employeeRepo: employeeRepo, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, code, password string) (string, string, AuthResponse, error) {
	empl, err := s.activeEmployee(ctx, code)
	if err != nil {
		s.logger.Warn("login rejected", zap.String("code", code), zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(empl.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected: wrong password", zap.String("code", code))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssuePair(domain.Principal{Code: empl.Code, Role: empl.Role})
	if err != nil {
		s.logger.Error("login token generation failed", zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("code", code))
	return access, refresh, toResponse(empl), nil
}

// RefreshToken reloads the employee so that role changes and deletions take
// effect on the next refresh.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	p, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	empl, err := s.activeEmployee(ctx, p.Code)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	access, refresh, err := s.tokens.IssuePair(domain.Principal{Code: empl.Code, Role: empl.Role})
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, toResponse(empl), nil
}

func (s *service) GetMe(ctx context.Context, code string) (*AuthResponse, error) {
	empl, err := s.activeEmployee(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := toResponse(empl)
	return &resp, nil
}

func (s *service) activeEmployee(ctx context.Context, code string) (*employee.Employee, error) {
	empl, err := s.employeeRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, autherrors.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	if empl.IsDeleted() {
		return nil, autherrors.ErrPrincipalNotFound
	}
	return empl, nil
}

func toResponse(e *employee.Employee) AuthResponse {
	return AuthResponse{Code: e.Code, Name: e.Name, Role: e.Role}
}
