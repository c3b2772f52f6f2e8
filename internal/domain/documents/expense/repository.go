package expense

import (
	"context"

	"essenceflow/internal/domain"
)

// Repository defines expense persistence operations.
type Repository interface {
	domain.CatalogRepository[*Expense, Expense]

	// ListAll returns every expense; used by the dashboard.
	ListAll(ctx context.Context) ([]*Expense, error)
}
