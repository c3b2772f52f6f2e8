// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is a stock amount (ml, g, pieces). The unit is implied by the
// item category and never stored alongside the number.
type Quantity = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a decimal from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// ClampNonNegative returns q, or zero when q is negative.
// Every stock write goes through it: stock is never persisted below zero.
func ClampNonNegative(q Quantity) Quantity {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}

// Sum adds up values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
