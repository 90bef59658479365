package ports

import "github.com/lostfound/board-api/internal/core/domain"

// TokenService issues and verifies self-contained signed tokens. Nothing is
// persisted; a refresh token stays valid until it expires.
type TokenService interface {
	IssueAccess(identity domain.Identity) (string, error)
	IssueRefresh(identity domain.Identity) (string, error)
	Verify(token string, kind domain.TokenKind) (domain.Identity, error)
}
