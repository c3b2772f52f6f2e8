package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
)

// ComponentDTO is one bill-of-materials line.
type ComponentDTO struct {
	InventoryItemID string          `json:"inventoryItemId" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
}

func toComponents(field string, lines []ComponentDTO) ([]product.Component, error) {
	out := make([]product.Component, 0, len(lines))
	for i, l := range lines {
		itemID, err := ParseRef[inventory.Item](fmt.Sprintf("%s[%d].inventoryItemId", field, i), l.InventoryItemID)
		if err != nil {
			return nil, err
		}
		out = append(out, product.Component{InventoryItemID: itemID, AmountPerUnit: l.Amount})
	}
	return out, nil
}

// CreateProductRequest for creating a product formulation.
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"required,max=50"`
	Name         string           `json:"name" binding:"required,max=200"`
	Ingredients  []ComponentDTO   `json:"ingredients" binding:"dive"`
	Packaging    []ComponentDTO   `json:"packaging" binding:"dive"`
	SellingPrice decimal.Decimal  `json:"sellingPrice" binding:"gte=0"`
	TotalCost    decimal.Decimal  `json:"totalCost" binding:"gte=0"`
	CurrentStock *decimal.Decimal `json:"currentStock" binding:"omitempty,gte=0"`
}

// ToEntity builds a new product.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.NewProduct(r.SKU, r.Name)

	var err error
	if p.Ingredients, err = toComponents("ingredients", r.Ingredients); err != nil {
		return nil, err
	}
	if p.Packaging, err = toComponents("packaging", r.Packaging); err != nil {
		return nil, err
	}
	p.SellingPrice = r.SellingPrice
	p.TotalCost = r.TotalCost
	if r.CurrentStock != nil {
		p.CurrentStock = *r.CurrentStock
	}
	return p, nil
}

// UpdateProductRequest is a partial update. A present currentStock is a
// manual stock override.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku" binding:"omitempty,max=50"`
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Ingredients  []ComponentDTO   `json:"ingredients" binding:"omitempty,dive"`
	Packaging    []ComponentDTO   `json:"packaging" binding:"omitempty,dive"`
	SellingPrice *decimal.Decimal `json:"sellingPrice" binding:"omitempty,gte=0"`
	TotalCost    *decimal.Decimal `json:"totalCost" binding:"omitempty,gte=0"`
	CurrentStock *decimal.Decimal `json:"currentStock" binding:"omitempty,gte=0"`
}

// ApplyTo copies the present fields onto p.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Ingredients != nil {
		lines, err := toComponents("ingredients", r.Ingredients)
		if err != nil {
			return err
		}
		p.Ingredients = lines
	}
	if r.Packaging != nil {
		lines, err := toComponents("packaging", r.Packaging)
		if err != nil {
			return err
		}
		p.Packaging = lines
	}
	if r.SellingPrice != nil {
		p.SellingPrice = *r.SellingPrice
	}
	if r.TotalCost != nil {
		p.TotalCost = *r.TotalCost
	}
	if r.CurrentStock != nil {
		p.CurrentStock = *r.CurrentStock
	}
	return nil
}

// ProduceRequest for POST /products/:id/produce.
type ProduceRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}
