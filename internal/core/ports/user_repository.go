package ports

import (
	"context"

	"github.com/lostfound/board-api/internal/core/domain"
)

// UserRepository is the credential store. Email uniqueness is enforced by the
// store itself; Create returns domain.ErrEmailTaken when it is violated.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
