package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
)

// CreateInventoryItemRequest for creating a raw material or packaging item.
type CreateInventoryItemRequest struct {
	Name         string           `json:"name" binding:"required,max=200"`
	Category     string           `json:"category" binding:"required,max=50"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"gte=0"`
	CostPerUnit  decimal.Decimal  `json:"costPerUnit" binding:"gte=0"`
	MinThreshold *decimal.Decimal `json:"minThreshold" binding:"omitempty,gte=0"`
	BatchNumber  string           `json:"batchNumber" binding:"max=100"`
	ExpiryDate   *time.Time       `json:"expiryDate"`
	VendorID     *string          `json:"vendorId" binding:"omitempty,uuid"`
}

// ToEntity builds a new inventory item.
func (r *CreateInventoryItemRequest) ToEntity() (*inventory.Item, error) {
	vendorID, err := ParseOptionalRef[vendor.Vendor]("vendorId", r.VendorID)
	if err != nil {
		return nil, err
	}

	item := inventory.NewItem(r.Name, r.Category)
	item.Quantity = r.Quantity
	item.CostPerUnit = r.CostPerUnit
	if r.MinThreshold != nil {
		item.MinThreshold = *r.MinThreshold
	}
	item.BatchNumber = r.BatchNumber
	item.ExpiryDate = utcPtr(r.ExpiryDate)
	item.VendorID = vendorID
	return item, nil
}

// UpdateInventoryItemRequest is a partial update; absent fields are kept.
// An empty vendorId detaches the vendor.
type UpdateInventoryItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Category     *string          `json:"category" binding:"omitempty,max=50"`
	Quantity     *decimal.Decimal `json:"quantity" binding:"omitempty,gte=0"`
	CostPerUnit  *decimal.Decimal `json:"costPerUnit" binding:"omitempty,gte=0"`
	MinThreshold *decimal.Decimal `json:"minThreshold" binding:"omitempty,gte=0"`
	BatchNumber  *string          `json:"batchNumber" binding:"omitempty,max=100"`
	ExpiryDate   *time.Time       `json:"expiryDate"`
	VendorID     *string          `json:"vendorId" binding:"omitempty,uuid"`
}

// ApplyTo copies the present fields onto item.
func (r *UpdateInventoryItemRequest) ApplyTo(item *inventory.Item) error {
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	if r.CostPerUnit != nil {
		item.CostPerUnit = *r.CostPerUnit
	}
	if r.MinThreshold != nil {
		item.MinThreshold = *r.MinThreshold
	}
	if r.BatchNumber != nil {
		item.BatchNumber = *r.BatchNumber
	}
	if r.ExpiryDate != nil {
		item.ExpiryDate = utcPtr(r.ExpiryDate)
	}
	if r.VendorID != nil {
		vendorID, err := ParseOptionalRef[vendor.Vendor]("vendorId", r.VendorID)
		if err != nil {
			return err
		}
		item.VendorID = vendorID
	}
	return nil
}
