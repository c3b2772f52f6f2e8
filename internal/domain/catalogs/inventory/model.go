// Package inventory provides the InventoryItem catalog: raw materials and
// packaging units consumed by production.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/vendor"
)

// ItemID identifies an inventory item.
type ItemID = id.Of[Item]

// DefaultMinThreshold is applied when an item is created without a threshold.
var DefaultMinThreshold = decimal.NewFromInt(10)

// Item is a raw material or packaging unit (oil, bottle, cap, ...).
type Item struct {
	ID       ItemID `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`

	// Quantity never goes below zero; every stock write clamps it.
	Quantity    types.Quantity `json:"quantity"`
	CostPerUnit types.Money    `json:"costPerUnit"`
	// MinThreshold triggers the low-stock alert when Quantity <= MinThreshold.
	MinThreshold types.Quantity `json:"minThreshold"`

	BatchNumber string     `json:"batchNumber,omitempty"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	VendorID    *vendor.ID `json:"vendorId,omitempty"`

	entity.Versioned
	entity.Audit
}

// NewItem creates a new item with generated ID and default threshold.
func NewItem(name, category string) *Item {
	return &Item{
		ID:           id.NewOf[Item](),
		Name:         name,
		Category:     category,
		Quantity:     decimal.Zero,
		CostPerUnit:  decimal.Zero,
		MinThreshold: DefaultMinThreshold,
		Versioned:    entity.Versioned{Version: 1},
		Audit:        entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (i *Item) GetID() ItemID { return i.ID }

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(i.Category) == "" {
		return apperror.NewValidation("category is required").WithDetail("field", "category")
	}
	if i.Quantity.IsNegative() {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if i.CostPerUnit.IsNegative() {
		return apperror.NewValidation("costPerUnit must not be negative").WithDetail("field", "costPerUnit")
	}
	if i.MinThreshold.IsNegative() {
		return apperror.NewValidation("minThreshold must not be negative").WithDetail("field", "minThreshold")
	}
	return nil
}

// IsLowStock reports whether the item is at or below its alert threshold.
func (i *Item) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinThreshold)
}

// StockValue is quantity x unit cost.
func (i *Item) StockValue() types.Money {
	return i.Quantity.Mul(i.CostPerUnit)
}
