package wastage

import (
	"context"

	"essenceflow/internal/domain"
)

// Repository defines wastage persistence operations.
type Repository interface {
	Create(ctx context.Context, w *Wastage) error
	GetByID(ctx context.Context, id ID) (*Wastage, error)
	GetForUpdate(ctx context.Context, id ID) (*Wastage, error)
	Update(ctx context.Context, w *Wastage) error
	Delete(ctx context.Context, id ID) error

	// List returns records ordered by date, newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Wastage], error)
}
