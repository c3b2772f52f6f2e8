package inventory

import (
	"context"
	"fmt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
)

// Service provides business logic for the InventoryItem catalog.
type Service struct {
	*domain.CatalogService[*Item, Item]
	repo  Repository
	usage FormulationLookup
}

// NewService creates a new InventoryItem service.
// Deletion is guarded: an item referenced by any product formulation cannot be removed.
func NewService(repo Repository, txm tx.Manager, usage FormulationLookup) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item, Item]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "Item",
	})
	svc := &Service{CatalogService: base, repo: repo, usage: usage}
	base.Hooks().OnBeforeDelete(svc.ensureNotInFormulation)
	return svc
}

// ensureNotInFormulation checks formulations while holding the item's row lock.
func (s *Service) ensureNotInFormulation(ctx context.Context, item *Item) error {
	if _, err := s.repo.GetForUpdate(ctx, item.ID); err != nil {
		return lookupErr(err, item.ID)
	}
	name, used, err := s.usage.ProductUsingItem(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("check formulation usage: %w", err)
	}
	if used {
		return apperror.NewReferentialIntegrity(fmt.Sprintf(
			"Cannot delete '%s' because it is used in a product formulation (%s). Remove it from the formulation first.",
			item.Name, name,
		)).WithDetail("itemId", item.ID.String()).WithDetail("product", name)
	}
	return nil
}

// --- Stock writes used by the mutation engine. Callers hold a transaction. ---

// Increase adds qty to the item. Fails with NOT_FOUND when the item is missing.
func Increase(ctx context.Context, repo Repository, itemID ItemID, qty types.Quantity) (*Item, error) {
	item, err := repo.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, lookupErr(err, itemID)
	}
	item.Quantity = types.ClampNonNegative(item.Quantity.Add(qty))
	if err := repo.SetQuantity(ctx, itemID, item.Quantity); err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	return item, nil
}

// DecreaseClamped subtracts qty, flooring the result at zero.
// A missing item is skipped and reported with ok=false.
func DecreaseClamped(ctx context.Context, repo Repository, itemID ItemID, qty types.Quantity) (item *Item, ok bool, err error) {
	item, err = repo.GetForUpdate(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lock item: %w", err)
	}
	item.Quantity = types.ClampNonNegative(item.Quantity.Sub(qty))
	if err := repo.SetQuantity(ctx, itemID, item.Quantity); err != nil {
		return nil, false, fmt.Errorf("set quantity: %w", err)
	}
	return item, true, nil
}

func lookupErr(err error, itemID ItemID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("Inventory item", itemID)
	}
	return fmt.Errorf("lock item: %w", err)
}
