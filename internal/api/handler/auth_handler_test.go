package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lostfound/board-api/internal/api/middleware"
	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	refreshFn  func(ctx context.Context, token string) (string, error)
	meFn       func(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, identity)
}

var testCookies = CookieConfig{Secure: true, MaxAge: 7 * 24 * time.Hour}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func aliceResult() *ports.AuthResult {
	return &ports.AuthResult{
		User: &domain.User{
			ID:           "user-1",
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$secret",
			CreatedAt:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", RefreshCookieName)
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return aliceResult(), nil
		},
	}
	h := NewAuthHandler(stub, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "refresh-token") || strings.Contains(body, "secret") {
		t.Errorf("body leaks credentials: %s", body)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["access"] != "access-token" {
		t.Errorf("access = %v", resp["access"])
	}
	user, _ := resp["user"].(map[string]any)
	if user["id"] != "user-1" || user["email"] != "alice@example.com" || user["name"] != "Alice" {
		t.Errorf("user = %v", user)
	}

	cookie := refreshCookie(t, rec)
	if cookie.Value != "refresh-token" {
		t.Errorf("cookie value = %q", cookie.Value)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
		t.Errorf("cookie attributes = %+v", cookie)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("cookie MaxAge = %d", cookie.MaxAge)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"A","email":"not-an-email","password":"123"}`), rec)

	err := h.Register(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
	got := map[string]bool{}
	for _, f := range verr.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"name", "email", "password"} {
		if !got[want] {
			t.Errorf("missing violation for %q: %+v", want, verr.Fields)
		}
	}
}

func TestAuthHandler_Register_PaddedShortName(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"  a  ","email":"a@example.com","password":"secret1"}`), rec)

	err := h.Register(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "name" {
		t.Errorf("fields = %+v", verr.Fields)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`), rec)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on failure")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if password != "secret1" {
				return nil, domain.ErrInvalidCredentials
			}
			return aliceResult(), nil
		},
	}
	h := NewAuthHandler(stub, CookieConfig{MaxAge: time.Hour})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`), rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookie := refreshCookie(t, rec); cookie.Secure {
		t.Error("cookie must not be Secure outside production")
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong-pass"}`), rec)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newEcho()
	var gotToken string
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			gotToken = token
			if token == "" {
				return "", domain.ErrMissingRefreshToken
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(stub, testCookies)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "refresh-token"})
	rec := httptest.NewRecorder()
	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotToken != "refresh-token" {
		t.Errorf("service got %q", gotToken)
	}
	var resp accessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Access != "new-access" {
		t.Errorf("resp = %+v, err = %v", resp, err)
	}

	rec = httptest.NewRecorder()
	err := h.Refresh(e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/refresh", nil), rec))
	if !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("err = %v, want ErrMissingRefreshToken", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, testCookies)

	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
	cookie := refreshCookie(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cookie)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		meFn: func(_ context.Context, identity domain.Identity) (*domain.User, error) {
			if identity.ID != "user-1" {
				return nil, domain.ErrUnauthorized
			}
			return aliceResult().User, nil
		},
	}
	h := NewAuthHandler(stub, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	if err := h.Me(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("without identity: err = %v, want ErrMissingToken", err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middleware.IdentityKey, domain.Identity{ID: "user-1", Email: "alice@example.com"})
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Errorf("credentials leaked: %s", rec.Body.String())
	}
	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.User.ID != "user-1" {
		t.Errorf("resp = %+v, err = %v", resp, err)
	}
}
