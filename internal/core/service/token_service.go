package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var signingMethod = jwt.SigningMethodHS256

// TokenConfig holds the secrets and lifetimes of both token classes.
// RefreshSecret falls back to AccessSecret when empty.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// tokenClaims is the payload of both access and refresh tokens. Kind keeps one
// class from ever being accepted where the other is expected.
type tokenClaims struct {
	Email string           `json:"email"`
	Kind  domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies stateless JWTs.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

func NewTokenService(cfg TokenConfig, log zerolog.Logger) (*TokenService, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("token service: access secret is required")
	}
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.AccessSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, fmt.Errorf("token service: refresh ttl (%s) must exceed access ttl (%s)", cfg.RefreshTTL, cfg.AccessTTL)
	}

	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
		log:           log,
	}, nil
}

// RefreshTTL is the lifetime of refresh tokens, used for the cookie Max-Age.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueAccess(identity domain.Identity) (string, error) {
	return s.issue(identity, domain.TokenAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefresh(identity domain.Identity) (string, error) {
	return s.issue(identity, domain.TokenRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(identity domain.Identity, kind domain.TokenKind, secret []byte, ttl time.Duration) (string, error) {
	if identity.ID == "" {
		return "", errors.New("token service: identity id is required")
	}

	now := s.now()
	claims := tokenClaims{
		Email: identity.Email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind. Every failure surfaces as
// domain.ErrInvalidToken; the reason is only logged.
func (s *TokenService) Verify(token string, kind domain.TokenKind) (domain.Identity, error) {
	secret := s.accessSecret
	if kind == domain.TokenRefresh {
		secret = s.refreshSecret
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		s.log.Debug().Err(err).Str("kind", string(kind)).Str("reason", reason).Msg("token rejected")
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if claims.Kind != kind || claims.Subject == "" {
		s.log.Debug().Str("kind", string(kind)).Str("got", string(claims.Kind)).Msg("token rejected: wrong kind")
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{ID: claims.Subject, Email: claims.Email}, nil
}
