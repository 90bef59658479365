package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, discardLogger)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

var alice = domain.Identity{ID: "64b7f0c2e1a2b3c4d5e6f708", Email: "alice@example.com"}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTestTokens(t)

	token, err := svc.IssueAccess(alice)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	got, err := svc.Verify(token, domain.TokenAccess)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != alice {
		t.Errorf("identity = %+v, want %+v", got, alice)
	}
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := newTestTokens(t)

	token, err := svc.IssueRefresh(alice)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	got, err := svc.Verify(token, domain.TokenRefresh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("subject = %q, want %q", got.ID, alice.ID)
	}
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	svc := newTestTokens(t)

	access, _ := svc.IssueAccess(alice)
	refresh, _ := svc.IssueRefresh(alice)

	if _, err := svc.Verify(refresh, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("refresh as access: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Verify(access, domain.TokenRefresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("access as refresh: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_SharedSecretStillChecksKind(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{AccessSecret: "only-secret"}, discardLogger)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	refresh, _ := svc.IssueRefresh(alice)
	if _, err := svc.Verify(refresh, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokens(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.IssueAccess(alice)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_AccessExpiresBeforeRefresh(t *testing.T) {
	svc := newTestTokens(t)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	access, _ := svc.IssueAccess(alice)
	refresh, _ := svc.IssueRefresh(alice)

	// 16 minutes later: access is gone, refresh still good.
	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }
	if _, err := svc.Verify(access, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("access after 16m: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Verify(refresh, domain.TokenRefresh); err != nil {
		t.Errorf("refresh after 16m: unexpected error %v", err)
	}
}

func TestTokenService_RejectsTamperedAndForeignTokens(t *testing.T) {
	svc := newTestTokens(t)
	good, _ := svc.IssueAccess(alice)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Kind: domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("someone-elses-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		Kind: domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Kind:             domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: alice.ID},
	}).SignedString([]byte("access-secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Kind: domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("access-secret"))

	cases := map[string]string{
		"garbage":    "not-a-jwt",
		"empty":      "",
		"tampered":   tampered,
		"foreign":    foreign,
		"alg none":   unsigned,
		"no expiry":  noExpiry,
		"no subject": noSubject,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewTokenService_Config(t *testing.T) {
	if _, err := NewTokenService(TokenConfig{}, discardLogger); err == nil {
		t.Error("expected error without access secret")
	}

	_, err := NewTokenService(TokenConfig{
		AccessSecret: "s",
		AccessTTL:    time.Hour,
		RefreshTTL:   time.Minute,
	}, discardLogger)
	if err == nil {
		t.Error("expected error when refresh ttl does not exceed access ttl")
	}

	svc, err := NewTokenService(TokenConfig{AccessSecret: "s"}, discardLogger)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if svc.RefreshTTL() != defaultRefreshTTL {
		t.Errorf("RefreshTTL = %s, want %s", svc.RefreshTTL(), defaultRefreshTTL)
	}
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	svc := newTestTokens(t)
	if _, err := svc.IssueAccess(domain.Identity{}); err == nil {
		t.Error("expected error for empty identity")
	}
}
