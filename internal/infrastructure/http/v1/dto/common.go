// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"fmt"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult creates a ListResponse from a domain page.
func FromListResult[T any](r domain.ListResult[T]) ListResponse {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- Common Filters ---

// ListQuery contains common list parameters.
type ListQuery struct {
	Search string `form:"search"`
	Limit  int    `form:"limit" binding:"omitempty,min=0,max=1000"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts to domain filter. Limit 0 falls back to the default page size.
func (q ListQuery) ToFilter() domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = q.Search
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}

// --- Message Response ---

// MessageResponse for operations that return a confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- helpers ---

// ParseRef parses a typed reference from a request field.
func ParseRef[K any](field, raw string) (id.Of[K], error) {
	ref, err := id.ParseOf[K](raw)
	if err != nil {
		return ref, apperror.NewValidation(fmt.Sprintf("invalid %s", field)).WithDetail("field", field)
	}
	return ref, nil
}

// ParseOptionalRef parses a nullable reference; nil or "" yields nil.
func ParseOptionalRef[K any](field string, raw *string) (*id.Of[K], error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	ref, err := ParseRef[K](field, *raw)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func utcOrNow(t *time.Time) time.Time {
	if t == nil {
		return time.Now().UTC()
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
