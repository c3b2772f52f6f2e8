// Package wastage provides the Wastage document: raw material lost to
// spillage, breakage or expiry.
package wastage

import (
	"context"
	"strings"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
)

// ID identifies a wastage record.
type ID = id.Of[Wastage]

// Wastage records an amount of an inventory item written off.
type Wastage struct {
	ID              ID               `json:"id"`
	InventoryItemID inventory.ItemID `json:"inventoryItemId"`
	Amount          types.Quantity   `json:"amount"`
	Reason          string           `json:"reason"`
	// Cost is Amount x the item's costPerUnit at the last log or update.
	Cost types.Money `json:"cost"`
	Date time.Time   `json:"date"`

	entity.Versioned
	entity.Audit
}

// NewWastage creates a record dated now.
func NewWastage(itemID inventory.ItemID, amount types.Quantity, reason string) *Wastage {
	return &Wastage{
		ID:              id.NewOf[Wastage](),
		InventoryItemID: itemID,
		Amount:          amount,
		Reason:          reason,
		Date:            time.Now().UTC(),
		Versioned:       entity.Versioned{Version: 1},
		Audit:           entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (w *Wastage) GetID() ID { return w.ID }

// Validate implements entity.Validatable.
func (w *Wastage) Validate(ctx context.Context) error {
	if w.InventoryItemID.IsZero() {
		return apperror.NewValidation("inventoryItemId is required").WithDetail("field", "inventoryItemId")
	}
	if !w.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	if strings.TrimSpace(w.Reason) == "" {
		return apperror.NewValidation("reason is required").WithDetail("field", "reason")
	}
	return nil
}

// Price recomputes Cost from the item's current unit cost.
func (w *Wastage) Price(item *inventory.Item) {
	w.Cost = item.CostPerUnit.Mul(w.Amount)
}
