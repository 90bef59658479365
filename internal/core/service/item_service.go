package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

// ItemService implements the item report use cases.
type ItemService struct {
	repo   ports.ItemRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewItemService wires the service. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewItemService(repo ports.ItemRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, idem: idem, logger: logger}
}

// List returns unresolved items matching the filters, newest first.
func (s *ItemService) List(ctx context.Context, input ports.ListItemsInput) ([]*domain.Item, error) {
	filter := ports.ItemFilter{
		Status:   domain.ItemStatus(strings.TrimSpace(input.Status)),
		Category: domain.Category(strings.TrimSpace(input.Category)),
		Search:   strings.TrimSpace(input.Search),
	}

	verr := &domain.ValidationError{}
	if filter.Status != "" && !filter.Status.IsValid() {
		verr.Add("status", "status must be one of: lost found")
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		verr.Add("category", "category must be one of: electronics clothing accessories documents keys pets other")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get returns a single item regardless of its resolution state.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new report owned by identity. Any owner supplied by the
// client never reaches this point.
func (s *ItemService) Create(ctx context.Context, identity domain.Identity, input ports.CreateItemInput) (*domain.Item, error) {
	item := &domain.Item{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.ItemStatus(input.Status),
		Category:    domain.Category(input.Category),
		Location:    toLocation(input.Location),
		DateLost:    input.DateLost,
		DateFound:   input.DateFound,
		Images:      input.Images,
		ContactInfo: toContactInfo(input.ContactInfo),
		Owner:       domain.Owner{ID: identity.ID},
	}
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	claimed := false
	if key != "" && s.idem != nil {
		existingID, reserved, err := s.idem.Reserve(ctx, identity.ID, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		case reserved:
			claimed = true
		case existingID == "":
			return nil, domain.ErrIdempotencyInProgress
		default:
			existing, err := s.repo.FindByID(ctx, existingID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", key).Str("item_id", existingID).Msg("idempotent replay")
				return existing, nil
			}
			if !errors.Is(err, domain.ErrItemNotFound) {
				return nil, fmt.Errorf("create item: replay lookup: %w", err)
			}
			// The first item was deleted since; this request takes the key over.
			claimed = true
		}
	}

	id, err := s.repo.Create(ctx, item)
	if err != nil {
		if claimed {
			if rerr := s.idem.Release(ctx, identity.ID, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Str("owner", identity.ID).Msg("failed to create item")
		return nil, fmt.Errorf("create item: %w", err)
	}

	if claimed {
		if err := s.idem.Complete(ctx, identity.ID, key, id); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("item_id", id).Str("owner", identity.ID).Str("status", string(item.Status)).Msg("item created")

	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update to an item owned by identity.
func (s *ItemService) Update(ctx context.Context, id string, identity domain.Identity, input ports.UpdateItemInput) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	applyPatch(item, input)
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Str("owner", identity.ID).Msg("item updated")
	return s.repo.FindByID(ctx, id)
}

func (s *ItemService) Delete(ctx context.Context, id string, identity domain.Identity) error {
	if _, err := s.ownedItem(ctx, id, identity); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Str("owner", identity.ID).Msg("item deleted")
	return nil
}

// Resolve marks an item as reunited. Resolving twice is a no-op success.
func (s *ItemService) Resolve(ctx context.Context, id string, identity domain.Identity) (*domain.Item, error) {
	if _, err := s.ownedItem(ctx, id, identity); err != nil {
		return nil, err
	}

	if err := s.repo.MarkResolved(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Str("owner", identity.ID).Msg("item resolved")
	return s.repo.FindByID(ctx, id)
}

// MyItems returns every item owned by identity, resolved or not.
func (s *ItemService) MyItems(ctx context.Context, identity domain.Identity) ([]*domain.Item, error) {
	items, err := s.repo.List(ctx, ports.ItemFilter{OwnerID: identity.ID, IncludeResolved: true})
	if err != nil {
		return nil, fmt.Errorf("list own items: %w", err)
	}
	return items, nil
}

// ownedItem loads the item and checks ownership. Existence is checked first, so
// a non-owner can tell whether an id exists.
func (s *ItemService) ownedItem(ctx context.Context, id string, identity domain.Identity) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(identity) {
		s.logger.Warn().Str("item_id", id).Str("caller", identity.ID).Msg("non-owner mutation rejected")
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func applyPatch(item *domain.Item, in ports.UpdateItemInput) {
	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Status != nil {
		item.Status = domain.ItemStatus(*in.Status)
	}
	if in.Category != nil {
		item.Category = domain.Category(*in.Category)
	}
	if in.Location != nil {
		item.Location = toLocation(*in.Location)
	}
	switch {
	case in.ClearDateLost:
		item.DateLost = nil
	case in.DateLost != nil:
		item.DateLost = in.DateLost
	}
	switch {
	case in.ClearDateFound:
		item.DateFound = nil
	case in.DateFound != nil:
		item.DateFound = in.DateFound
	}
	if in.Images != nil {
		item.Images = *in.Images
	}
	if in.ContactInfo != nil {
		item.ContactInfo = toContactInfo(*in.ContactInfo)
	}
}

func toLocation(in ports.LocationInput) domain.Location {
	loc := domain.Location{Address: in.Address, City: in.City}
	if in.Coordinates != nil {
		loc.Coordinates = &domain.Coordinates{Lat: in.Coordinates.Lat, Lng: in.Coordinates.Lng}
	}
	return loc
}

func toContactInfo(in ports.ContactInfoInput) domain.ContactInfo {
	return domain.ContactInfo{
		Phone:            in.Phone,
		Email:            in.Email,
		PreferredContact: domain.ContactMethod(in.PreferredContact),
	}
}
