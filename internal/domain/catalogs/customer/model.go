// Package customer provides the Customer catalog.
package customer

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
)

// ID identifies a customer.
type ID = id.Of[Customer]

// Customer is a buyer. TotalSpent is a running total owned by the sales
// engine: it only changes when a sale is created or voided.
type Customer struct {
	ID         ID          `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	Phone      string      `json:"phone"`
	TotalSpent types.Money `json:"totalSpent"`

	entity.Versioned
	entity.Audit
}

// NewCustomer creates a new customer with generated ID.
func NewCustomer(name, phone string) *Customer {
	return &Customer{
		ID:         id.NewOf[Customer](),
		Name:       name,
		Phone:      phone,
		TotalSpent: decimal.Zero,
		Versioned:  entity.Versioned{Version: 1},
		Audit:      entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (c *Customer) GetID() ID { return c.ID }

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return apperror.NewValidation("phone is required").WithDetail("field", "phone")
	}
	return nil
}
