package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

const (
	defaultBcryptCost = 10
	minNameLength     = 2
)

// AuthService implements registration, login, token refresh and identity lookup.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	cost   int
	log    zerolog.Logger

	// dummyHash is compared against when the email is unknown so both failure
	// paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, cost int, log zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("lostfound-dummy-password"), cost)
	return &AuthService{repo: repo, tokens: tokens, cost: cost, log: log, dummyHash: dummy}
}

// NormalizeEmail lower-cases and trims an email so lookups match the stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	email := NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		verr := &domain.ValidationError{}
		verr.Add("name", fmt.Sprintf("name must be at least %d characters", minNameLength))
		return nil, verr
	}

	// Fast path only; the unique index on email is what prevents the race.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrMissingRefreshToken
	}

	identity, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}

	access, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return access, nil
}

func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

func (s *AuthService) issuePair(user *domain.User) (*ports.AuthResult, error) {
	identity := domain.Identity{ID: user.ID, Email: user.Email}

	access, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
