package purchase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/numerator"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/pkg/logger"
)

// CreateRequest carries the fields of a new purchase.
type CreateRequest struct {
	VendorID        vendor.ID
	Items           []Line
	TotalAmount     types.Money
	Date            *time.Time
	ReferenceNumber string // generated when empty
}

// UpdateRequest carries a partial update. Nil fields keep their stored value.
type UpdateRequest struct {
	VendorID        *vendor.ID
	Items           []Line // nil keeps the stored lines
	TotalAmount     *types.Money
	Date            *time.Time
	ReferenceNumber *string
}

// Service implements the purchase side of the stock engine.
type Service struct {
	repo      Repository
	items     inventory.Repository
	vendors   vendor.Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new purchase service.
func NewService(
	repo Repository,
	items inventory.Repository,
	vendors vendor.Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		vendors:   vendors,
		txManager: txManager,
		numerator: gen,
	}
}

// Create stores the purchase and adds every line's quantity to its item.
// Referenced items must already exist.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Purchase, error) {
	doc := NewPurchase(req.VendorID, req.Items)
	doc.TotalAmount = req.TotalAmount
	doc.ReferenceNumber = req.ReferenceNumber
	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureVendor(ctx, doc.VendorID); err != nil {
			return err
		}
		if doc.ReferenceNumber == "" {
			number, err := numerator.Next(ctx, s.numerator, numerator.PrefixPurchase, doc.Date)
			if err != nil {
				return fmt.Errorf("generate reference number: %w", err)
			}
			doc.ReferenceNumber = number
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		return s.apply(ctx, doc.Items, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase created",
		"purchase_id", doc.ID.String(),
		"reference", doc.ReferenceNumber,
		"lines", len(doc.Items))

	return doc, nil
}

// Update reverses the stored lines (clamped at zero), overwrites the provided
// fields and applies the resulting lines, in one transaction.
func (s *Service) Update(ctx context.Context, purchaseID ID, req UpdateRequest) (*Purchase, error) {
	var doc *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lock(ctx, purchaseID)
		if err != nil {
			return err
		}

		gone, err := s.reverse(ctx, doc.Items)
		if err != nil {
			return err
		}

		if req.VendorID != nil {
			doc.VendorID = *req.VendorID
		}
		if req.Items != nil {
			doc.Items = req.Items
		}
		if req.TotalAmount != nil {
			doc.TotalAmount = *req.TotalAmount
		}
		if req.Date != nil {
			doc.Date = req.Date.UTC()
		}
		if req.ReferenceNumber != nil && *req.ReferenceNumber != "" {
			doc.ReferenceNumber = *req.ReferenceNumber
		}
		doc.Touch()

		if err := doc.Validate(ctx); err != nil {
			return err
		}
		if req.VendorID != nil {
			if err := s.ensureVendor(ctx, doc.VendorID); err != nil {
				return err
			}
		}

		if err := s.apply(ctx, doc.Items, gone); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase updated", "purchase_id", purchaseID.String(), "lines", len(doc.Items))
	return doc, nil
}

// Delete subtracts every line's quantity from its item (clamped at zero)
// and removes the purchase.
func (s *Service) Delete(ctx context.Context, purchaseID ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lock(ctx, purchaseID)
		if err != nil {
			return err
		}
		if _, err := s.reverse(ctx, doc.Items); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, purchaseID); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase deleted", "purchase_id", purchaseID.String())
	return nil
}

// GetByID retrieves a purchase.
func (s *Service) GetByID(ctx context.Context, purchaseID ID) (*Purchase, error) {
	doc, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Purchase", purchaseID)
		}
		return nil, err
	}
	return doc, nil
}

// List returns purchases, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) lock(ctx context.Context, purchaseID ID) (*Purchase, error) {
	doc, err := s.repo.GetForUpdate(ctx, purchaseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Purchase", purchaseID)
		}
		return nil, fmt.Errorf("lock purchase: %w", err)
	}
	return doc, nil
}

func (s *Service) ensureVendor(ctx context.Context, vendorID vendor.ID) error {
	if _, err := s.vendors.GetByID(ctx, vendorID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("Vendor", vendorID)
		}
		return fmt.Errorf("resolve vendor: %w", err)
	}
	return nil
}

// apply adds every line to its item. Items listed in gone were on the stored
// purchase and have been deleted since; their lines are skipped.
func (s *Service) apply(ctx context.Context, lines []Line, gone map[inventory.ItemID]struct{}) error {
	for _, line := range byItem(lines) {
		if _, skip := gone[line.InventoryItemID]; skip {
			continue
		}
		if _, err := inventory.Increase(ctx, s.items, line.InventoryItemID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// reverse skips items deleted since the purchase was recorded and returns them.
func (s *Service) reverse(ctx context.Context, lines []Line) (map[inventory.ItemID]struct{}, error) {
	gone := make(map[inventory.ItemID]struct{})
	for _, line := range byItem(lines) {
		_, ok, err := inventory.DecreaseClamped(ctx, s.items, line.InventoryItemID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			gone[line.InventoryItemID] = struct{}{}
		}
	}
	return gone, nil
}

// byItem returns the lines ordered by item id, the order rows are locked in.
func byItem(lines []Line) []Line {
	out := slices.Clone(lines)
	slices.SortStableFunc(out, func(a, b Line) int {
		return a.InventoryItemID.Compare(b.InventoryItemID)
	})
	return out
}
