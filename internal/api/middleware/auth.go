package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
)

// IdentityKey is the echo context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

const bearerPrefix = "Bearer "

// TokenVerifier is the part of the token service the guard needs.
type TokenVerifier interface {
	Verify(token string, kind domain.TokenKind) (domain.Identity, error)
}

// Auth verifies the bearer access token and injects the caller's identity into
// the context. It never touches the database.
func Auth(tokens TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				return domain.ErrMissingToken
			}
			token := strings.TrimSpace(authHeader[len(bearerPrefix):])
			if token == "" {
				return domain.ErrMissingToken
			}

			identity, err := tokens.Verify(token, domain.TokenAccess)
			if err != nil {
				log.Debug().Str("path", c.Path()).Msg("rejected access token")
				return domain.ErrInvalidToken
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}
