package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/service"
)

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return tokens
}

func runGuard(t *testing.T, tokens TokenVerifier, header string) (called bool, identity domain.Identity, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, zerolog.Nop())(func(c echo.Context) error {
		called = true
		identity, _ = c.Get(IdentityKey).(domain.Identity)
		return c.NoContent(http.StatusOK)
	})
	err = handler(c)
	return called, identity, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTokens(t)
	signed, err := tokens.IssueAccess(domain.Identity{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called, identity, err := runGuard(t, tokens, "Bearer "+signed)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if identity.ID != "user-1" || identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called, _, err := runGuard(t, newTokens(t), "")
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "bearer abc", "Bearer", "Bearer    "} {
		called, _, err := runGuard(t, newTokens(t), header)
		if called {
			t.Fatalf("%q: should not reach next", header)
		}
		if !errors.Is(err, domain.ErrMissingToken) {
			t.Fatalf("%q: expected ErrMissingToken, got %v", header, err)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	called, _, err := runGuard(t, newTokens(t), "Bearer not-a-token")
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthMiddleware_RejectsRefreshToken(t *testing.T) {
	tokens := newTokens(t)
	refresh, err := tokens.IssueRefresh(domain.Identity{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called, _, err := runGuard(t, tokens, "Bearer "+refresh)
	if called {
		t.Fatalf("refresh token must not authorize a resource operation")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

type expiredVerifier struct{}

func (expiredVerifier) Verify(string, domain.TokenKind) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrInvalidToken
}

func TestAuthMiddleware_VerifierFailure(t *testing.T) {
	called, _, err := runGuard(t, expiredVerifier{}, "Bearer whatever")
	if called || !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without calling next, got called=%v err=%v", called, err)
	}
}
