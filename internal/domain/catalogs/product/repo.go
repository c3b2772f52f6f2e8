package product

import (
	"context"

	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product, Product]

	// GetForUpdate retrieves product with row lock.
	GetForUpdate(ctx context.Context, id ID) (*Product, error)

	// SetStock overwrites currentStock and bumps the version.
	SetStock(ctx context.Context, id ID, stock types.Quantity) error

	// FindUsingItem returns products whose ingredients or packaging reference itemID.
	FindUsingItem(ctx context.Context, itemID inventory.ItemID) ([]*Product, error)
}

// formulationLookup adapts Repository to inventory.FormulationLookup.
type formulationLookup struct {
	repo Repository
}

// NewFormulationLookup returns the delete guard used by the inventory service.
func NewFormulationLookup(repo Repository) inventory.FormulationLookup {
	return formulationLookup{repo: repo}
}

func (l formulationLookup) ProductUsingItem(ctx context.Context, itemID inventory.ItemID) (string, bool, error) {
	products, err := l.repo.FindUsingItem(ctx, itemID)
	if err != nil {
		return "", false, err
	}
	if len(products) == 0 {
		return "", false, nil
	}
	return products[0].Name, true, nil
}
