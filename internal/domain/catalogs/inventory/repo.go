package inventory

import (
	"context"

	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
)

// Repository defines the interface for InventoryItem persistence.
type Repository interface {
	domain.CatalogRepository[*Item, Item]

	// GetForUpdate retrieves item with row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id ItemID) (*Item, error)

	// SetQuantity overwrites the stock level and bumps the version.
	SetQuantity(ctx context.Context, id ItemID, qty types.Quantity) error

	// ListAll returns every item; used by the dashboard.
	ListAll(ctx context.Context) ([]*Item, error)
}

// FormulationLookup finds products whose bill of materials references an item.
// Implemented on top of the product repository; declared here so the delete
// guard does not import the product package.
type FormulationLookup interface {
	// ProductUsingItem returns the name of one product that lists the item
	// in its ingredients or packaging, or ok=false when none does.
	ProductUsingItem(ctx context.Context, itemID ItemID) (name string, ok bool, err error)
}
