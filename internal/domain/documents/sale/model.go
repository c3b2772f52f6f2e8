// Package sale provides the Sale document: a stock-out event against
// finished-product stock, reversible by voiding.
package sale

import (
	"context"
	"fmt"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
)

// ID identifies a sale.
type ID = id.Of[Sale]

// Status of a sale. VOIDED is terminal.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusVoided    Status = "VOIDED"
)

// Line is one sold product.
type Line struct {
	ProductID product.ID     `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	Total     types.Money    `json:"total"`
}

// Sale records the products sold on one receipt.
type Sale struct {
	ID            ID     `json:"id"`
	ReceiptNumber string `json:"receiptNumber"`
	// CustomerID is nil for walk-in customers.
	CustomerID *customer.ID `json:"customerId,omitempty"`
	Items      []Line       `json:"items"`
	Subtotal   types.Money  `json:"subtotal"`
	Discount   types.Money  `json:"discount"`
	Total      types.Money  `json:"total"`
	Status     Status       `json:"status"`
	Date       time.Time    `json:"date"`

	entity.Versioned
	entity.Audit
}

// NewSale creates a COMPLETED sale dated now.
func NewSale(items []Line) *Sale {
	return &Sale{
		ID:        id.NewOf[Sale](),
		Items:     items,
		Status:    StatusCompleted,
		Date:      time.Now().UTC(),
		Versioned: entity.Versioned{Version: 1},
		Audit:     entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (s *Sale) GetID() ID { return s.ID }

// IsVoided reports whether the sale has been reversed.
func (s *Sale) IsVoided() bool {
	return s.Status == StatusVoided
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if len(s.Items) == 0 {
		return apperror.NewValidation("sale must contain at least one item").WithDetail("field", "items")
	}
	for i, line := range s.Items {
		if line.ProductID.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: productId is required", i)).WithDetail("field", "items")
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: quantity must be positive", i)).WithDetail("field", "items")
		}
		if line.UnitPrice.IsNegative() || line.Total.IsNegative() {
			return apperror.NewValidation(fmt.Sprintf("items[%d]: price must not be negative", i)).WithDetail("field", "items")
		}
	}
	if s.Subtotal.IsNegative() || s.Discount.IsNegative() || s.Total.IsNegative() {
		return apperror.NewValidation("amounts must not be negative").WithDetail("field", "total")
	}
	switch s.Status {
	case StatusCompleted, StatusVoided:
	default:
		return apperror.NewValidation(fmt.Sprintf("unknown status %q", s.Status)).WithDetail("field", "status")
	}
	return nil
}
