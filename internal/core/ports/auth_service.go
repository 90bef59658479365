package ports

import (
	"context"

	"github.com/lostfound/board-api/internal/core/domain"
)

// RegisterInput carries an already shape-validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login. RefreshToken is delivered to the
// client only through the HTTP-only cookie.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, identity domain.Identity) (*domain.User, error)
}
