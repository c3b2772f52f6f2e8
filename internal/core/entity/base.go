// Package entity holds the fields and contracts shared by all stored entities.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without storage access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Audit contains creation and modification timestamps.
type Audit struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAudit stamps both fields with the current time.
func NewAudit() Audit {
	now := time.Now().UTC()
	return Audit{CreatedAt: now, UpdatedAt: now}
}

// Touch updates the UpdatedAt timestamp.
func (a *Audit) Touch() {
	a.UpdatedAt = time.Now().UTC()
}

// Versioned carries the optimistic lock counter.
// Repositories only write a row whose stored version matches and bump it on success.
type Versioned struct {
	Version int `db:"version" json:"version"`
}

// GetVersion returns the version read from storage.
func (v Versioned) GetVersion() int {
	return v.Version
}

// SetVersion updates the version number (used by repository after sync).
func (v *Versioned) SetVersion(n int) {
	v.Version = n
}
