package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateOnlyLayout is accepted alongside RFC 3339 for dateLost/dateFound.
const dateOnlyLayout = "2006-01-02"

// flexDate decodes either an RFC 3339 timestamp or a bare calendar date.
type flexDate struct {
	time.Time
}

func (d *flexDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, dateOnlyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", s)
}

func (d *flexDate) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// patchDate remembers whether a date key was present in an update body. null or
// "" clears the stored date; an absent key leaves it unchanged.
type patchDate struct {
	present bool
	value   *time.Time
}

func (d *patchDate) UnmarshalJSON(b []byte) error {
	d.present = true
	if string(b) == "null" {
		return nil
	}
	var fd flexDate
	if err := fd.UnmarshalJSON(b); err != nil {
		return err
	}
	d.value = fd.ptr()
	return nil
}

func (d patchDate) cleared() bool {
	return d.present && d.value == nil
}

// ── Requests ────────────────────────────────────────────────────────────────

type coordinatesRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type locationRequest struct {
	Address     string              `json:"address"     validate:"required"`
	City        string              `json:"city"`
	Coordinates *coordinatesRequest `json:"coordinates" validate:"omitempty"`
}

type contactInfoRequest struct {
	Phone            string `json:"phone"`
	Email            string `json:"email"            validate:"omitempty,email"`
	PreferredContact string `json:"preferredContact" validate:"omitempty,oneof=email phone"`
}

type createItemRequest struct {
	Title       string             `json:"title"       validate:"required"`
	Description string             `json:"description" validate:"required"`
	Status      string             `json:"status"      validate:"required,oneof=lost found"`
	Category    string             `json:"category"    validate:"required,oneof=electronics clothing accessories documents keys pets other"`
	Location    locationRequest    `json:"location"`
	DateLost    *flexDate          `json:"dateLost"    swaggertype:"string"`
	DateFound   *flexDate          `json:"dateFound"   swaggertype:"string"`
	Images      []string           `json:"images"      validate:"omitempty,dive,url"`
	ContactInfo contactInfoRequest `json:"contactInfo"`

	// Accepted so older clients keep working, then discarded: the owner is
	// always the authenticated caller.
	Owner json.RawMessage `json:"owner,omitempty" swaggerignore:"true"`
	User  json.RawMessage `json:"user,omitempty"  swaggerignore:"true"`
}

// updateItemRequest is a partial update. Ownership and resolution state are not
// part of it; sending them is rejected as an unknown field.
type updateItemRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Status      *string             `json:"status"      validate:"omitempty,oneof=lost found"`
	Category    *string             `json:"category"    validate:"omitempty,oneof=electronics clothing accessories documents keys pets other"`
	Location    *locationRequest    `json:"location"    validate:"omitempty"`
	DateLost    patchDate           `json:"dateLost"    swaggertype:"string"`
	DateFound   patchDate           `json:"dateFound"   swaggertype:"string"`
	Images      *[]string           `json:"images"      validate:"omitempty,dive,url"`
	ContactInfo *contactInfoRequest `json:"contactInfo" validate:"omitempty"`
}

// ── Responses ───────────────────────────────────────────────────────────────

type messageResponse struct {
	Message string `json:"message"`
}
