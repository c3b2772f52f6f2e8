package purchase

import (
	"context"

	"essenceflow/internal/domain"
)

// Repository defines purchase persistence operations.
type Repository interface {
	// Create inserts a purchase. Duplicate reference numbers yield a DUPLICATE_ENTRY AppError.
	Create(ctx context.Context, p *Purchase) error

	// GetByID retrieves purchase by ID.
	GetByID(ctx context.Context, id ID) (*Purchase, error)

	// GetForUpdate retrieves purchase with row lock.
	GetForUpdate(ctx context.Context, id ID) (*Purchase, error)

	// Update overwrites the stored document (optimistic locking on version).
	Update(ctx context.Context, p *Purchase) error

	// Delete removes the document.
	Delete(ctx context.Context, id ID) error

	// List returns purchases ordered by date, newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Purchase], error)
}
