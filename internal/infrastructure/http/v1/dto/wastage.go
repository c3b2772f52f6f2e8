package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/documents/wastage"
)

// LogWastageRequest for writing off inventory.
type LogWastageRequest struct {
	InventoryItemID string          `json:"inventoryItemId" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	Reason          string          `json:"reason" binding:"required,max=500"`
	Date            *time.Time      `json:"date"`
}

// ToDomain converts to the wastage engine request.
func (r *LogWastageRequest) ToDomain() (wastage.LogRequest, error) {
	itemID, err := ParseRef[inventory.Item]("inventoryItemId", r.InventoryItemID)
	if err != nil {
		return wastage.LogRequest{}, err
	}
	return wastage.LogRequest{
		InventoryItemID: itemID,
		Amount:          r.Amount,
		Reason:          r.Reason,
		Date:            utcPtr(r.Date),
	}, nil
}

// UpdateWastageRequest is a partial update of a wastage record.
type UpdateWastageRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Reason *string          `json:"reason" binding:"omitempty,max=500"`
	Date   *time.Time       `json:"date"`
}

// ToDomain converts to the wastage engine request.
func (r *UpdateWastageRequest) ToDomain() wastage.UpdateRequest {
	return wastage.UpdateRequest{
		Amount: r.Amount,
		Reason: r.Reason,
		Date:   utcPtr(r.Date),
	}
}
