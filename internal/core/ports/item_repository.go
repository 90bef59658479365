package ports

import (
	"context"

	"github.com/lostfound/board-api/internal/core/domain"
)

// ItemFilter carries the query parameters for listing items.
type ItemFilter struct {
	Status   domain.ItemStatus // optional equality filter
	Category domain.Category   // optional equality filter
	Search   string            // optional case-insensitive substring over title, description, location.address
	OwnerID  string            // optional: restrict to one owner
	// IncludeResolved disables the default isResolved == false restriction.
	IncludeResolved bool
}

// ItemRepository defines persistence operations for item reports. Every read
// returns items with Owner expanded to {id, name, email}, newest first.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)
	// Update overwrites the mutable fields of an existing item. Owner and
	// IsResolved are left untouched.
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
	MarkResolved(ctx context.Context, id string) error
}
