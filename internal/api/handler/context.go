package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/lostfound/board-api/internal/api/middleware"
	"github.com/lostfound/board-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// identity means the route was wired without the guard; treat it as 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || identity.ID == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return identity, nil
}
