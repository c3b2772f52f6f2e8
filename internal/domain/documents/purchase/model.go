// Package purchase provides the Purchase document: a stock-in event that
// increases raw-material quantities.
package purchase

import (
	"context"
	"fmt"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
)

// ID identifies a purchase.
type ID = id.Of[Purchase]

// Line is one purchased inventory item.
type Line struct {
	InventoryItemID inventory.ItemID `json:"inventoryItemId"`
	Quantity        types.Quantity   `json:"quantity"`
	CostPerUnit     types.Money      `json:"costPerUnit"`
}

// Purchase records goods received from a vendor.
type Purchase struct {
	ID              ID          `json:"id"`
	VendorID        vendor.ID   `json:"vendorId"`
	Items           []Line      `json:"items"`
	TotalAmount     types.Money `json:"totalAmount"`
	Date            time.Time   `json:"date"`
	ReferenceNumber string      `json:"referenceNumber"`

	entity.Versioned
	entity.Audit
}

// NewPurchase creates a purchase dated now.
func NewPurchase(vendorID vendor.ID, items []Line) *Purchase {
	return &Purchase{
		ID:        id.NewOf[Purchase](),
		VendorID:  vendorID,
		Items:     items,
		Date:      time.Now().UTC(),
		Versioned: entity.Versioned{Version: 1},
		Audit:     entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (p *Purchase) GetID() ID { return p.ID }

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if p.VendorID.IsZero() {
		return apperror.NewValidation("vendorId is required").WithDetail("field", "vendorId")
	}
	for i, line := range p.Items {
		if line.InventoryItemID.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: inventoryItemId is required", i)).WithDetail("field", "items")
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: quantity must be positive", i)).WithDetail("field", "items")
		}
		if line.CostPerUnit.IsNegative() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: costPerUnit must not be negative", i)).WithDetail("field", "items")
		}
	}
	if p.TotalAmount.IsNegative() {
		return apperror.NewValidation("totalAmount must not be negative").WithDetail("field", "totalAmount")
	}
	return nil
}
