package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

const itemsCollection = "items"

// ItemRepository implements ports.ItemRepository using MongoDB.
type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(itemsCollection)}
}

type mongoCoordinates struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type mongoLocation struct {
	Address     string            `bson:"address"`
	City        string            `bson:"city,omitempty"`
	Coordinates *mongoCoordinates `bson:"coordinates,omitempty"`
}

type mongoContactInfo struct {
	Phone            string `bson:"phone,omitempty"`
	Email            string `bson:"email,omitempty"`
	PreferredContact string `bson:"preferredContact"`
}

type mongoOwner struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type mongoItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Category    string             `bson:"category"`
	Location    mongoLocation      `bson:"location"`
	DateLost    *time.Time         `bson:"dateLost,omitempty"`
	DateFound   *time.Time         `bson:"dateFound,omitempty"`
	Images      []string           `bson:"images"`
	ContactInfo mongoContactInfo   `bson:"contactInfo"`
	IsResolved  bool               `bson:"isResolved"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`

	// OwnerDoc is only present on documents read through itemPipeline.
	OwnerDoc *mongoOwner `bson:"ownerDoc,omitempty"`
}

// Create inserts a new item and returns its id.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(item.Owner.ID)
	if err != nil {
		return "", fmt.Errorf("invalid owner id %q: %w", item.Owner.ID, err)
	}

	now := time.Now().UTC()
	doc := fromDomainItem(item)
	doc.ID = primitive.NewObjectID()
	doc.Owner = owner
	doc.IsResolved = false
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert item: %w", err)
	}
	return doc.ID.Hex(), nil
}

// FindByID returns an item with its owner expanded. Malformed ids are
// reported as not found.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	items, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return items[0], nil
}

// List returns every item matching filter, newest first. There is no paging.
func (r *ItemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]*domain.Item, error) {
	match, err := BuildItemFilter(filter)
	if err != nil {
		return nil, err
	}
	return r.aggregate(ctx, match)
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	oid, err := primitive.ObjectIDFromHex(item.ID)
	if err != nil {
		return domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainItem(item)
	set := bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"status":      doc.Status,
		"category":    doc.Category,
		"location":    doc.Location,
		"images":      doc.Images,
		"contactInfo": doc.ContactInfo,
		"updatedAt":   time.Now().UTC(),
	}
	unset := bson.M{}
	if doc.DateLost != nil {
		set["dateLost"] = doc.DateLost
	} else {
		unset["dateLost"] = ""
	}
	if doc.DateFound != nil {
		set["dateFound"] = doc.DateFound
	} else {
		unset["dateFound"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// MarkResolved sets isResolved. Matching an already resolved item is success.
func (r *ItemRepository) MarkResolved(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"isResolved": true, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("resolve item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the list and my-items queries.
func (r *ItemRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isResolved", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ItemRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, itemPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	var docs []mongoItem
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]*domain.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, nil
}

func fromDomainItem(it *domain.Item) mongoItem {
	doc := mongoItem{
		Title:       it.Title,
		Description: it.Description,
		Status:      string(it.Status),
		Category:    string(it.Category),
		Location: mongoLocation{
			Address: it.Location.Address,
			City:    it.Location.City,
		},
		DateLost:  utcPtr(it.DateLost),
		DateFound: utcPtr(it.DateFound),
		Images:    it.Images,
		ContactInfo: mongoContactInfo{
			Phone:            it.ContactInfo.Phone,
			Email:            it.ContactInfo.Email,
			PreferredContact: string(it.ContactInfo.PreferredContact),
		},
		IsResolved: it.IsResolved,
	}
	if c := it.Location.Coordinates; c != nil {
		doc.Location.Coordinates = &mongoCoordinates{Lat: c.Lat, Lng: c.Lng}
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	return doc
}

func (d mongoItem) toDomain() *domain.Item {
	it := &domain.Item{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.ItemStatus(d.Status),
		Category:    domain.Category(d.Category),
		Location: domain.Location{
			Address: d.Location.Address,
			City:    d.Location.City,
		},
		DateLost:  utcPtr(d.DateLost),
		DateFound: utcPtr(d.DateFound),
		Images:    d.Images,
		ContactInfo: domain.ContactInfo{
			Phone:            d.ContactInfo.Phone,
			Email:            d.ContactInfo.Email,
			PreferredContact: domain.ContactMethod(d.ContactInfo.PreferredContact),
		},
		IsResolved: d.IsResolved,
		Owner:      domain.Owner{ID: d.Owner.Hex()},
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if c := d.Location.Coordinates; c != nil {
		it.Location.Coordinates = &domain.Coordinates{Lat: c.Lat, Lng: c.Lng}
	}
	if d.OwnerDoc != nil {
		it.Owner.Name = d.OwnerDoc.Name
		it.Owner.Email = d.OwnerDoc.Email
	}
	if it.Images == nil {
		it.Images = []string{}
	}
	return it
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
