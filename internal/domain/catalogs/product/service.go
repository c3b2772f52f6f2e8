package product

import (
	"context"
	"fmt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product, Product]
	items inventory.Repository
}

// NewService creates a new Product service.
// Every bill-of-materials line must reference an existing inventory item.
func NewService(repo Repository, items inventory.Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product, Product]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "Product",
	})
	svc := &Service{CatalogService: base, items: items}
	base.Hooks().OnBeforeCreate(svc.ensureComponentsExist)
	base.Hooks().OnBeforeUpdate(svc.ensureComponentsExist)
	return svc
}

// ensureComponentsExist locks every referenced item in id order until the
// transaction ends.
func (s *Service) ensureComponentsExist(ctx context.Context, p *Product) error {
	ids := make([]inventory.ItemID, 0, len(p.Ingredients)+len(p.Packaging))
	for _, c := range p.Ingredients {
		ids = append(ids, c.InventoryItemID)
	}
	for _, c := range p.Packaging {
		ids = append(ids, c.InventoryItemID)
	}

	missing := make(map[inventory.ItemID]bool)
	for _, itemID := range id.SortedUnique(ids) {
		if _, err := s.items.GetForUpdate(ctx, itemID); err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("lock item: %w", err)
			}
			missing[itemID] = true
		}
	}

	check := func(label string, lines []Component) error {
		for _, c := range lines {
			if missing[c.InventoryItemID] {
				return apperror.NewValidation(fmt.Sprintf("%s %s not found", label, c.InventoryItemID)).
					WithDetail("inventoryItemId", c.InventoryItemID.String())
			}
		}
		return nil
	}
	if err := check("Ingredient", p.Ingredients); err != nil {
		return err
	}
	return check("Packaging", p.Packaging)
}

// AdjustStock adds delta to currentStock, flooring at zero. Missing products are skipped.
// Must be called inside a transaction.
func AdjustStock(ctx context.Context, repo Repository, productID ID, delta types.Quantity) (*Product, bool, error) {
	p, err := repo.GetForUpdate(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lock product: %w", err)
	}
	p.CurrentStock = types.ClampNonNegative(p.CurrentStock.Add(delta))
	if err := repo.SetStock(ctx, productID, p.CurrentStock); err != nil {
		return nil, false, fmt.Errorf("set stock: %w", err)
	}
	return p, true, nil
}
