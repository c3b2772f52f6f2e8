package customer

import (
	"context"

	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer, Customer]

	// GetForUpdate retrieves customer with row lock.
	GetForUpdate(ctx context.Context, id ID) (*Customer, error)

	// SetTotalSpent overwrites the running total.
	SetTotalSpent(ctx context.Context, id ID, total types.Money) error
}
