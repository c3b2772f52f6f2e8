package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/documents/expense"
)

// CreateExpenseRequest for recording an operating cost.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"gte=0"`
	Date        *time.Time      `json:"date"`
}

// ToEntity builds a new expense.
func (r *CreateExpenseRequest) ToEntity() (*expense.Expense, error) {
	e := expense.NewExpense(r.Category, r.Amount)
	e.Description = r.Description
	e.Date = utcOrNow(r.Date)
	return e, nil
}

// UpdateExpenseRequest is a partial expense update.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gte=0"`
	Date        *time.Time       `json:"date"`
}

// ApplyTo copies the present fields onto e.
func (r *UpdateExpenseRequest) ApplyTo(e *expense.Expense) error {
	if r.Category != nil {
		e.Category = *r.Category
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Amount != nil {
		e.Amount = *r.Amount
	}
	if r.Date != nil {
		e.Date = r.Date.UTC()
	}
	return nil
}
