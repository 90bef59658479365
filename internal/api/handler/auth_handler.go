package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lostfound/board-api/internal/api/metrics"
	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// CookieConfig controls the attributes of the refresh cookie.
type CookieConfig struct {
	// Secure is set in production so the cookie only travels over HTTPS.
	Secure bool
	// MaxAge matches the refresh token lifetime.
	MaxAge time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("register", "invalid").Inc()
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("register", failureReason(err)).Inc()
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "success").Inc()
	h.setRefreshCookie(c, result.RefreshToken)
	return c.JSON(http.StatusCreated, authResponse{User: toUserResponse(result.User), Access: result.AccessToken})
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login", "invalid").Inc()
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login", failureReason(err)).Inc()
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	h.setRefreshCookie(c, result.RefreshToken)
	return c.JSON(http.StatusOK, authResponse{User: toUserResponse(result.User), Access: result.AccessToken})
}

// Refresh mints a new access token from the refresh cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  accessResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	access, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("refresh", failureReason(err)).Inc()
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("refresh", "success").Inc()
	return c.JSON(http.StatusOK, accessResponse{Access: access})
}

// Logout clears the refresh cookie. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  okResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.AuthEventsTotal.WithLabelValues("logout", "success").Inc()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Me returns the authenticated caller's account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(user)})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookies.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// failureReason is the metrics label for a failed auth call.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrMissingRefreshToken):
		return "missing_token"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return "invalid_token"
	default:
		return "error"
	}
}
