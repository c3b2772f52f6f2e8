package sale

import (
	"context"

	"essenceflow/internal/domain"
)

// Repository defines sale persistence operations.
type Repository interface {
	// Create inserts a sale. Duplicate receipt numbers yield a DUPLICATE_ENTRY AppError.
	Create(ctx context.Context, s *Sale) error

	// GetByID retrieves sale by ID.
	GetByID(ctx context.Context, id ID) (*Sale, error)

	// GetForUpdate retrieves sale with row lock.
	GetForUpdate(ctx context.Context, id ID) (*Sale, error)

	// SetStatus changes the sale status.
	SetStatus(ctx context.Context, id ID, status Status) error

	// List returns sales, newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)

	// ListByStatus returns every sale in the given status; used by the dashboard.
	ListByStatus(ctx context.Context, status Status) ([]*Sale, error)
}
