package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ItemStatus tells whether a report is about something lost or something found.
type ItemStatus string

const (
	StatusLost  ItemStatus = "lost"
	StatusFound ItemStatus = "found"
)

func (s ItemStatus) IsValid() bool {
	return s == StatusLost || s == StatusFound
}

// Category is the fixed classification of a reported item.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
	CategoryDocuments   Category = "documents"
	CategoryKeys        Category = "keys"
	CategoryPets        Category = "pets"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryAccessories: {},
	CategoryDocuments:   {},
	CategoryKeys:        {},
	CategoryPets:        {},
	CategoryOther:       {},
}

func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// ContactMethod is the reporter's preferred way of being reached.
type ContactMethod string

const (
	ContactEmail ContactMethod = "email"
	ContactPhone ContactMethod = "phone"
)

func (m ContactMethod) IsValid() bool {
	return m == ContactEmail || m == ContactPhone
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is where an item was lost or found. Only Address is searchable.
type Location struct {
	Address     string       `json:"address"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// ContactInfo tells finders/owners how to reach the reporter.
type ContactInfo struct {
	Phone            string        `json:"phone,omitempty"`
	Email            string        `json:"email,omitempty"`
	PreferredContact ContactMethod `json:"preferredContact"`
}

// Owner is the expanded view of an item's reporter. It never carries credentials.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Item is a lost or found report. Owner is set from the authenticated identity at
// creation and never changes; IsResolved only ever moves from false to true.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      ItemStatus  `json:"status"`
	Category    Category    `json:"category"`
	Location    Location    `json:"location"`
	DateLost    *time.Time  `json:"dateLost,omitempty"`
	DateFound   *time.Time  `json:"dateFound,omitempty"`
	Images      []string    `json:"images"`
	ContactInfo ContactInfo `json:"contactInfo"`
	IsResolved  bool        `json:"isResolved"`
	Owner       Owner       `json:"owner"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Normalize trims free-text fields and fills defaults before validation.
func (it *Item) Normalize() {
	it.Title = strings.TrimSpace(it.Title)
	it.Description = strings.TrimSpace(it.Description)
	it.Location.Address = strings.TrimSpace(it.Location.Address)
	it.Location.City = strings.TrimSpace(it.Location.City)
	it.ContactInfo.Phone = strings.TrimSpace(it.ContactInfo.Phone)
	it.ContactInfo.Email = strings.TrimSpace(it.ContactInfo.Email)
	if it.ContactInfo.PreferredContact == "" {
		it.ContactInfo.PreferredContact = ContactEmail
	}
	if it.Images == nil {
		it.Images = []string{}
	}
}

// Validate checks the document-level rules every stored item must satisfy.
// All violations are reported together.
func (it *Item) Validate() error {
	verr := &ValidationError{}

	if it.Title == "" {
		verr.Add("title", "title is required")
	}
	if it.Description == "" {
		verr.Add("description", "description is required")
	}
	if !it.Status.IsValid() {
		verr.Add("status", "status must be one of: lost found")
	}
	if !it.Category.IsValid() {
		verr.Add("category", "category must be one of: electronics clothing accessories documents keys pets other")
	}
	if it.Location.Address == "" {
		verr.Add("location.address", "location.address is required")
	}
	if c := it.Location.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 {
			verr.Add("location.coordinates.lat", "location.coordinates.lat must be between -90 and 90")
		}
		if c.Lng < -180 || c.Lng > 180 {
			verr.Add("location.coordinates.lng", "location.coordinates.lng must be between -180 and 180")
		}
	}
	for _, img := range it.Images {
		if validate.Var(img, "required,url") != nil {
			verr.Add("images", "images must contain valid URLs")
			break
		}
	}
	if it.ContactInfo.Email != "" {
		if validate.Var(it.ContactInfo.Email, "email") != nil {
			verr.Add("contactInfo.email", "contactInfo.email must be a valid email")
		}
	}
	if !it.ContactInfo.PreferredContact.IsValid() {
		verr.Add("contactInfo.preferredContact", "contactInfo.preferredContact must be one of: email phone")
	}

	return verr.OrNil()
}

// OwnedBy reports whether the identity is the item's owner.
func (it *Item) OwnedBy(id Identity) bool {
	return id.ID != "" && it.Owner.ID == id.ID
}
