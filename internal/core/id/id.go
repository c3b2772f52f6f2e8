// Package id provides UUIDv7 generation and typed identifiers for all entities.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
package id

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ID is the untyped identifier used at storage boundaries.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// Of is an identifier bound to entity kind K.
// An Of[inventory.Item] cannot be passed where an Of[product.Product] is expected.
//
// The embedded UUID supplies String, MarshalText/UnmarshalText (JSON),
// Value and Scan (database/sql) so typed IDs travel through every layer unchanged.
type Of[K any] struct {
	uuid.UUID
}

// NewOf generates a fresh typed identifier.
func NewOf[K any]() Of[K] {
	return Of[K]{UUID: New()}
}

// From wraps an untyped ID.
func From[K any](raw ID) Of[K] {
	return Of[K]{UUID: raw}
}

// ParseOf parses a typed identifier from its string form.
func ParseOf[K any](s string) (Of[K], error) {
	raw, err := uuid.Parse(s)
	if err != nil {
		return Of[K]{}, fmt.Errorf("parse id %q: %w", s, err)
	}
	return Of[K]{UUID: raw}, nil
}

// MustParseOf is ParseOf that panics on error.
// Use only for constants and tests.
func MustParseOf[K any](s string) Of[K] {
	v, err := ParseOf[K](s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the identifier is unset.
func (i Of[K]) IsZero() bool {
	return i.UUID == uuid.Nil
}

// Raw returns the untyped ID.
func (i Of[K]) Raw() ID {
	return i.UUID
}

// Ptr returns nil for a zero identifier, otherwise a pointer to the raw value.
// Used for nullable reference columns.
func (i Of[K]) Ptr() *ID {
	if i.IsZero() {
		return nil
	}
	raw := i.UUID
	return &raw
}

// FromPtr is the inverse of Ptr.
func FromPtr[K any](raw *ID) Of[K] {
	if raw == nil {
		return Of[K]{}
	}
	return Of[K]{UUID: *raw}
}

// Compare orders identifiers bytewise. Rows are locked in this order.
func (i Of[K]) Compare(other Of[K]) int {
	return bytes.Compare(i.UUID[:], other.UUID[:])
}

// SortedUnique returns the distinct identifiers of ids in Compare order.
func SortedUnique[K any](ids []Of[K]) []Of[K] {
	out := slices.Clone(ids)
	slices.SortFunc(out, Of[K].Compare)
	return slices.Compact(out)
}
