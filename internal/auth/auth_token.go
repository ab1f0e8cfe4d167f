package auth

import (
	"errors"
	"time"

	autherrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/auth/errors"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type claims struct {
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens whose subject is the
// employee code.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// IssuePair returns an access token and a refresh token for p.
func (t *TokenIssuer) IssuePair(p domain.Principal) (string, string, error) {
	access, err := t.sign(p, tokenAccess, t.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := t.sign(p, tokenRefresh, t.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t *TokenIssuer) sign(p domain.Principal, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()
	c := claims{
		Role:      p.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Code,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

func (t *TokenIssuer) ParseAccessToken(token string) (domain.Principal, error) {
	return t.parse(token, tokenAccess, autherrors.ErrInvalidToken)
}

func (t *TokenIssuer) ParseRefreshToken(token string) (domain.Principal, error) {
	return t.parse(token, tokenRefresh, autherrors.ErrInvalidRefreshToken)
}

func (t *TokenIssuer) parse(token, tokenType string, invalid error) (domain.Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.Principal{}, autherrors.ErrTokenExpired
	}
	if err != nil || c.TokenType != tokenType || c.Subject == "" {
		return domain.Principal{}, invalid
	}
	return domain.Principal{Code: c.Subject, Role: c.Role}, nil
}
