// Package product provides the FinishedProduct catalog: sellable goods with
// a bill of materials (ingredients and packaging).
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
)

// ID identifies a finished product.
type ID = id.Of[Product]

// Component is one bill-of-materials line: how much of an inventory item
// goes into a single unit of the product.
type Component struct {
	InventoryItemID inventory.ItemID `json:"inventoryItemId"`
	AmountPerUnit   types.Quantity   `json:"amount"`
}

// Product is a finished good ready for sale.
type Product struct {
	ID   ID     `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`

	Ingredients []Component `json:"ingredients"`
	Packaging   []Component `json:"packaging"`

	SellingPrice types.Money `json:"sellingPrice"`
	// TotalCost is computed by the client from ingredient costs; informational only.
	TotalCost types.Money `json:"totalCost"`
	// CurrentStock is the number of units ready for sale; never below zero.
	CurrentStock types.Quantity `json:"currentStock"`

	entity.Versioned
	entity.Audit
}

// NewProduct creates a new product with generated ID and empty stock.
func NewProduct(sku, name string) *Product {
	return &Product{
		ID:           id.NewOf[Product](),
		SKU:          sku,
		Name:         name,
		Ingredients:  []Component{},
		Packaging:    []Component{},
		SellingPrice: decimal.Zero,
		TotalCost:    decimal.Zero,
		CurrentStock: decimal.Zero,
		Versioned:    entity.Versioned{Version: 1},
		Audit:        entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (p *Product) GetID() ID { return p.ID }

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("sellingPrice must not be negative").WithDetail("field", "sellingPrice")
	}
	if p.CurrentStock.IsNegative() {
		return apperror.NewValidation("currentStock must not be negative").WithDetail("field", "currentStock")
	}
	if err := validateComponents("ingredients", p.Ingredients); err != nil {
		return err
	}
	return validateComponents("packaging", p.Packaging)
}

func validateComponents(field string, lines []Component) error {
	for i, c := range lines {
		if c.InventoryItemID.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("%s[%d]: inventoryItemId is required", field, i)).
				WithDetail("field", field)
		}
		if !c.AmountPerUnit.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("%s[%d]: amount must be positive", field, i)).
				WithDetail("field", field)
		}
	}
	return nil
}

// Uses reports whether the bill of materials references itemID.
func (p *Product) Uses(itemID inventory.ItemID) bool {
	for _, c := range p.Ingredients {
		if c.InventoryItemID == itemID {
			return true
		}
	}
	for _, c := range p.Packaging {
		if c.InventoryItemID == itemID {
			return true
		}
	}
	return false
}
