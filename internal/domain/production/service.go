// Package production converts raw materials into finished-product stock.
package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/pkg/logger"
)

// Result is returned by a successful batch.
type Result struct {
	Message string           `json:"message"`
	Product *product.Product `json:"product"`
}

// Service runs production batches.
type Service struct {
	products  product.Repository
	items     inventory.Repository
	txManager tx.Manager
}

// NewService creates a new production service.
func NewService(products product.Repository, items inventory.Repository, txManager tx.Manager) *Service {
	return &Service{products: products, items: items, txManager: txManager}
}

type requirement struct {
	label  string // "Ingredient" or "Packaging"
	itemID inventory.ItemID
	needed types.Quantity
}

// ProduceBatch consumes amountPerUnit x quantity of every ingredient and
// packaging item and adds quantity units to the product's stock.
// Every line is checked before anything is written; the first failing line
// aborts the whole batch.
func (s *Service) ProduceBatch(ctx context.Context, productID product.ID, quantity types.Quantity) (*Result, error) {
	if !quantity.IsPositive() {
		return nil, apperror.NewValidation("Invalid quantity").WithDetail("quantity", quantity.String())
	}

	var produced *product.Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("Product", productID)
			}
			return fmt.Errorf("lock product: %w", err)
		}

		reqs := make([]requirement, 0, len(p.Ingredients)+len(p.Packaging))
		for _, c := range p.Ingredients {
			reqs = append(reqs, requirement{label: "Ingredient", itemID: c.InventoryItemID, needed: c.AmountPerUnit.Mul(quantity)})
		}
		for _, c := range p.Packaging {
			reqs = append(reqs, requirement{label: "Packaging", itemID: c.InventoryItemID, needed: c.AmountPerUnit.Mul(quantity)})
		}

		// Lock in id order, then check lines in formulation order.
		ids := make([]inventory.ItemID, 0, len(reqs))
		for _, r := range reqs {
			ids = append(ids, r.itemID)
		}
		locked := make(map[inventory.ItemID]*inventory.Item, len(reqs))
		for _, itemID := range id.SortedUnique(ids) {
			item, err := s.items.GetForUpdate(ctx, itemID)
			if err != nil {
				if apperror.IsNotFound(err) {
					continue
				}
				return fmt.Errorf("lock item: %w", err)
			}
			locked[itemID] = item
		}

		// Lines sharing an item draw from the same balance.
		remaining := make(map[inventory.ItemID]decimal.Decimal, len(reqs))
		for _, r := range reqs {
			item, ok := locked[r.itemID]
			if !ok {
				return apperror.NewValidation(fmt.Sprintf("%s %s not found", r.label, r.itemID)).
					WithDetail("inventoryItemId", r.itemID.String())
			}
			available, seen := remaining[r.itemID]
			if !seen {
				available = item.Quantity
			}
			if available.LessThan(r.needed) {
				return apperror.NewInsufficientStock(fmt.Sprintf(
					"Insufficient stock for %s. Needed: %s, Available: %s", item.Name, r.needed, available,
				)).
					WithDetail("inventoryItemId", item.ID.String()).
					WithDetail("needed", r.needed.String()).
					WithDetail("available", available.String())
			}
			remaining[r.itemID] = available.Sub(r.needed)
		}

		for _, itemID := range id.SortedUnique(ids) {
			if err := s.items.SetQuantity(ctx, itemID, remaining[itemID]); err != nil {
				return fmt.Errorf("deduct item: %w", err)
			}
		}

		if err := s.products.SetStock(ctx, p.ID, p.CurrentStock.Add(quantity)); err != nil {
			return fmt.Errorf("increase stock: %w", err)
		}
		produced, err = s.products.GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch produced",
		"product_id", productID.String(),
		"quantity", quantity.String(),
		"lines", len(produced.Ingredients)+len(produced.Packaging))

	return &Result{Message: "Production successful", Product: produced}, nil
}
