// Package dashboard computes read-only business rollups from sales,
// expenses and inventory.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/sale"
)

// Config tunes the aggregation. Passed explicitly on every call.
type Config struct {
	// COGSRatio approximates cost of goods sold as a share of sale subtotals.
	COGSRatio decimal.Decimal
	// AlertLimit caps the low-stock and nearing-expiry lists.
	AlertLimit int
	// ExpiryWindowMonths is how far ahead an expiry date counts as "nearing".
	ExpiryWindowMonths int
}

// DefaultConfig returns a 40% COGS ratio, top-5 alerts and a 3-month expiry window.
func DefaultConfig() Config {
	return Config{
		COGSRatio:          decimal.RequireFromString("0.4"),
		AlertLimit:         5,
		ExpiryWindowMonths: 3,
	}
}

// Input is the state the dashboard is computed from.
type Input struct {
	Sales     []*sale.Sale
	Expenses  []*expense.Expense
	Inventory []*inventory.Item
}

// Stats is the dashboard payload.
type Stats struct {
	Revenue       types.Money       `json:"revenue"`
	COGS          types.Money       `json:"cogs"`
	NetProfit     types.Money       `json:"netProfit"`
	Expenses      types.Money       `json:"expenses"`
	AssetValue    types.Money       `json:"assetValue"`
	LowStock      []*inventory.Item `json:"lowStock"`
	NearingExpiry []*inventory.Item `json:"nearingExpiry"`
}

// Compute aggregates in. Only COMPLETED sales count toward revenue and COGS.
func Compute(in Input, cfg Config, now time.Time) Stats {
	stats := Stats{
		Revenue:       decimal.Zero,
		COGS:          decimal.Zero,
		Expenses:      decimal.Zero,
		AssetValue:    decimal.Zero,
		LowStock:      []*inventory.Item{},
		NearingExpiry: []*inventory.Item{},
	}

	subtotal := decimal.Zero
	for _, s := range in.Sales {
		if s.Status != sale.StatusCompleted {
			continue
		}
		stats.Revenue = stats.Revenue.Add(s.Total)
		subtotal = subtotal.Add(s.Subtotal)
	}
	stats.COGS = subtotal.Mul(cfg.COGSRatio)

	for _, e := range in.Expenses {
		stats.Expenses = stats.Expenses.Add(e.Amount)
	}
	stats.NetProfit = stats.Revenue.Sub(stats.COGS).Sub(stats.Expenses)

	horizon := now.AddDate(0, cfg.ExpiryWindowMonths, 0)
	var expiring []*inventory.Item
	for _, item := range in.Inventory {
		stats.AssetValue = stats.AssetValue.Add(item.StockValue())
		if item.IsLowStock() && (cfg.AlertLimit <= 0 || len(stats.LowStock) < cfg.AlertLimit) {
			stats.LowStock = append(stats.LowStock, item)
		}
		if item.ExpiryDate != nil && !item.ExpiryDate.After(horizon) {
			expiring = append(expiring, item)
		}
	}

	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].ExpiryDate.Before(*expiring[j].ExpiryDate)
	})
	if cfg.AlertLimit > 0 && len(expiring) > cfg.AlertLimit {
		expiring = expiring[:cfg.AlertLimit]
	}
	stats.NearingExpiry = append(stats.NearingExpiry, expiring...)

	return stats
}
