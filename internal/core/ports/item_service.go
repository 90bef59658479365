package ports

import (
	"context"
	"time"

	"github.com/lostfound/board-api/internal/core/domain"
)

// ListItemsInput carries the raw query parameters of the public list endpoint.
type ListItemsInput struct {
	Status   string
	Category string
	Search   string
}

// CoordinatesInput holds geographic coordinates.
type CoordinatesInput struct {
	Lat float64
	Lng float64
}

// LocationInput holds where the item was lost or found.
type LocationInput struct {
	Address     string
	City        string
	Coordinates *CoordinatesInput
}

// ContactInfoInput holds the reporter's contact details.
type ContactInfoInput struct {
	Phone            string
	Email            string
	PreferredContact string
}

// CreateItemInput carries all data needed to create an item report.
type CreateItemInput struct {
	Title       string
	Description string
	Status      string
	Category    string
	Location    LocationInput
	DateLost    *time.Time
	DateFound   *time.Time
	Images      []string
	ContactInfo ContactInfoInput
	// IdempotencyKey makes retried submissions from the same owner return the
	// originally created item.
	IdempotencyKey string
}

// UpdateItemInput is a partial update; nil fields are left unchanged.
// ClearDateLost and ClearDateFound remove a previously set date.
type UpdateItemInput struct {
	Title          *string
	Description    *string
	Status         *string
	Category       *string
	Location       *LocationInput
	DateLost       *time.Time
	DateFound      *time.Time
	ClearDateLost  bool
	ClearDateFound bool
	Images         *[]string
	ContactInfo    *ContactInfoInput
}

// ItemService defines the use-case operations on item reports. Mutations are
// allowed only for the item's owner.
type ItemService interface {
	List(ctx context.Context, input ListItemsInput) ([]*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, identity domain.Identity, input CreateItemInput) (*domain.Item, error)
	Update(ctx context.Context, id string, identity domain.Identity, input UpdateItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id string, identity domain.Identity) error
	Resolve(ctx context.Context, id string, identity domain.Identity) (*domain.Item, error)
	MyItems(ctx context.Context, identity domain.Identity) ([]*domain.Item, error)
}
