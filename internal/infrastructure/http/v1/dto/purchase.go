package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/purchase"
)

// PurchaseLineDTO is one received inventory line.
type PurchaseLineDTO struct {
	InventoryItemID string          `json:"inventoryItemId" binding:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity" binding:"gt=0"`
	CostPerUnit     decimal.Decimal `json:"costPerUnit" binding:"gte=0"`
}

func toPurchaseLines(lines []PurchaseLineDTO) ([]purchase.Line, error) {
	out := make([]purchase.Line, 0, len(lines))
	for i, l := range lines {
		itemID, err := ParseRef[inventory.Item](fmt.Sprintf("items[%d].inventoryItemId", i), l.InventoryItemID)
		if err != nil {
			return nil, err
		}
		out = append(out, purchase.Line{
			InventoryItemID: itemID,
			Quantity:        l.Quantity,
			CostPerUnit:     l.CostPerUnit,
		})
	}
	return out, nil
}

// CreatePurchaseRequest for receiving goods from a vendor.
type CreatePurchaseRequest struct {
	VendorID        string            `json:"vendorId" binding:"required,uuid"`
	Items           []PurchaseLineDTO `json:"items" binding:"required,min=1,dive"`
	TotalAmount     decimal.Decimal   `json:"totalAmount" binding:"gte=0"`
	Date            *time.Time        `json:"date"`
	ReferenceNumber string            `json:"referenceNumber" binding:"max=50"`
}

// ToDomain converts to the purchase engine request.
func (r *CreatePurchaseRequest) ToDomain() (purchase.CreateRequest, error) {
	vendorID, err := ParseRef[vendor.Vendor]("vendorId", r.VendorID)
	if err != nil {
		return purchase.CreateRequest{}, err
	}
	lines, err := toPurchaseLines(r.Items)
	if err != nil {
		return purchase.CreateRequest{}, err
	}
	return purchase.CreateRequest{
		VendorID:        vendorID,
		Items:           lines,
		TotalAmount:     r.TotalAmount,
		Date:            utcPtr(r.Date),
		ReferenceNumber: r.ReferenceNumber,
	}, nil
}

// UpdatePurchaseRequest is a partial update. Present items replace the
// stored lines; the stock effect is reverted and re-applied.
type UpdatePurchaseRequest struct {
	VendorID        *string           `json:"vendorId" binding:"omitempty,uuid"`
	Items           []PurchaseLineDTO `json:"items" binding:"omitempty,min=1,dive"`
	TotalAmount     *decimal.Decimal  `json:"totalAmount" binding:"omitempty,gte=0"`
	Date            *time.Time        `json:"date"`
	ReferenceNumber *string           `json:"referenceNumber" binding:"omitempty,max=50"`
}

// ToDomain converts to the purchase engine request.
func (r *UpdatePurchaseRequest) ToDomain() (purchase.UpdateRequest, error) {
	vendorID, err := ParseOptionalRef[vendor.Vendor]("vendorId", r.VendorID)
	if err != nil {
		return purchase.UpdateRequest{}, err
	}

	var lines []purchase.Line
	if r.Items != nil {
		if lines, err = toPurchaseLines(r.Items); err != nil {
			return purchase.UpdateRequest{}, err
		}
	}

	return purchase.UpdateRequest{
		VendorID:        vendorID,
		Items:           lines,
		TotalAmount:     r.TotalAmount,
		Date:            utcPtr(r.Date),
		ReferenceNumber: r.ReferenceNumber,
	}, nil
}
