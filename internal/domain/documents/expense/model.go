// Package expense provides the Expense document: operating costs that feed
// the dashboard's net profit.
package expense

import (
	"context"
	"strings"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
)

// ID identifies an expense.
type ID = id.Of[Expense]

// Expense is a single operating cost (rent, utilities, marketing, ...).
type Expense struct {
	ID          ID          `json:"id"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Amount      types.Money `json:"amount"`
	Date        time.Time   `json:"date"`

	entity.Versioned
	entity.Audit
}

// NewExpense creates an expense dated now.
func NewExpense(category string, amount types.Money) *Expense {
	return &Expense{
		ID:        id.NewOf[Expense](),
		Category:  category,
		Amount:    amount,
		Date:      time.Now().UTC(),
		Versioned: entity.Versioned{Version: 1},
		Audit:     entity.NewAudit(),
	}
}

// GetID implements domain.Entity.
func (e *Expense) GetID() ID { return e.ID }

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if strings.TrimSpace(e.Category) == "" {
		return apperror.NewValidation("category is required").WithDetail("field", "category")
	}
	if e.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}
	return nil
}
