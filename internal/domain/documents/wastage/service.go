package wastage

import (
	"context"
	"fmt"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/pkg/logger"
)

// LogRequest carries a new wastage record.
type LogRequest struct {
	InventoryItemID inventory.ItemID
	Amount          types.Quantity
	Reason          string
	Date            *time.Time
}

// UpdateRequest carries a partial update. Nil fields keep their stored value.
type UpdateRequest struct {
	Amount *types.Quantity
	Reason *string
	Date   *time.Time
}

// Service implements the wastage side of the stock engine.
type Service struct {
	repo      Repository
	items     inventory.Repository
	txManager tx.Manager
}

// NewService creates a new wastage service.
func NewService(repo Repository, items inventory.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, items: items, txManager: txManager}
}

// Log writes off amount of an item: cost is priced at the item's current
// unit cost and the item quantity drops by amount, floored at zero.
func (s *Service) Log(ctx context.Context, req LogRequest) (*Wastage, error) {
	doc := NewWastage(req.InventoryItemID, req.Amount, req.Reason)
	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.lockItem(ctx, doc.InventoryItemID)
		if err != nil {
			return err
		}
		doc.Price(item)
		if err := s.items.SetQuantity(ctx, item.ID, types.ClampNonNegative(item.Quantity.Sub(doc.Amount))); err != nil {
			return fmt.Errorf("set quantity: %w", err)
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create wastage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wastage logged",
		"wastage_id", doc.ID.String(),
		"item_id", doc.InventoryItemID.String(),
		"amount", doc.Amount.String(),
		"cost", doc.Cost.String())

	return doc, nil
}

// Update restores the old amount, applies the new one (floored at zero)
// and reprices the record at the item's current unit cost.
func (s *Service) Update(ctx context.Context, wastageID ID, req UpdateRequest) (*Wastage, error) {
	var doc *Wastage
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lock(ctx, wastageID)
		if err != nil {
			return err
		}
		oldAmount := doc.Amount

		if req.Amount != nil {
			doc.Amount = *req.Amount
		}
		if req.Reason != nil {
			doc.Reason = *req.Reason
		}
		if req.Date != nil {
			doc.Date = req.Date.UTC()
		}
		doc.Touch()
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		item, err := s.lockItem(ctx, doc.InventoryItemID)
		if err != nil {
			return err
		}
		restored := item.Quantity.Add(oldAmount)
		if err := s.items.SetQuantity(ctx, item.ID, types.ClampNonNegative(restored.Sub(doc.Amount))); err != nil {
			return fmt.Errorf("set quantity: %w", err)
		}
		doc.Price(item)

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update wastage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wastage updated", "wastage_id", wastageID.String(), "amount", doc.Amount.String())
	return doc, nil
}

// Delete gives the written-off amount back to the item and removes the record.
func (s *Service) Delete(ctx context.Context, wastageID ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lock(ctx, wastageID)
		if err != nil {
			return err
		}
		if _, err := inventory.Increase(ctx, s.items, doc.InventoryItemID, doc.Amount); err != nil {
			if !apperror.IsNotFound(err) {
				return err
			}
		}
		if err := s.repo.Delete(ctx, wastageID); err != nil {
			return fmt.Errorf("delete wastage: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "wastage deleted", "wastage_id", wastageID.String())
	return nil
}

// GetByID retrieves a wastage record.
func (s *Service) GetByID(ctx context.Context, wastageID ID) (*Wastage, error) {
	doc, err := s.repo.GetByID(ctx, wastageID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Wastage record", wastageID)
		}
		return nil, err
	}
	return doc, nil
}

// List returns wastage records, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Wastage], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) lock(ctx context.Context, wastageID ID) (*Wastage, error) {
	doc, err := s.repo.GetForUpdate(ctx, wastageID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Wastage record", wastageID)
		}
		return nil, fmt.Errorf("lock wastage: %w", err)
	}
	return doc, nil
}

func (s *Service) lockItem(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	item, err := s.items.GetForUpdate(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Inventory item", itemID)
		}
		return nil, fmt.Errorf("lock item: %w", err)
	}
	return item, nil
}
