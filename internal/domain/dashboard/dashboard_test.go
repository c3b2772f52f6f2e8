package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/dashboard"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/infrastructure/storage/memory"
)

var now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func saleDoc(subtotal, total string, status sale.Status) *sale.Sale {
	s := sale.NewSale(nil)
	s.Subtotal = types.MustDecimal(subtotal)
	s.Total = types.MustDecimal(total)
	s.Status = status
	return s
}

func item(name, qty, cost string, expiry *time.Time) *inventory.Item {
	i := inventory.NewItem(name, "OIL")
	i.Quantity = types.MustDecimal(qty)
	i.CostPerUnit = types.MustDecimal(cost)
	i.ExpiryDate = expiry
	return i
}

func at(months int) *time.Time {
	t := now.AddDate(0, months, 0)
	return &t
}

func TestCompute_Financials(t *testing.T) {
	in := dashboard.Input{
		Sales: []*sale.Sale{
			saleDoc("1000", "900", sale.StatusCompleted),
			saleDoc("500", "500", sale.StatusCompleted),
			saleDoc("9999", "9999", sale.StatusVoided),
		},
		Expenses: []*expense.Expense{
			expense.NewExpense("RENT", types.MustDecimal("300")),
			expense.NewExpense("UTILITIES", types.MustDecimal("50")),
		},
		Inventory: []*inventory.Item{
			item("Oud Oil", "100", "10", nil),
			item("Bottle", "20", "0.5", nil),
		},
	}

	stats := dashboard.Compute(in, dashboard.DefaultConfig(), now)

	assert.Equal(t, "1400", stats.Revenue.String())
	assert.Equal(t, "600", stats.COGS.String())
	assert.Equal(t, "350", stats.Expenses.String())
	assert.Equal(t, "450", stats.NetProfit.String())
	assert.Equal(t, "1010", stats.AssetValue.String())
}

func TestCompute_EmptyInput(t *testing.T) {
	stats := dashboard.Compute(dashboard.Input{}, dashboard.DefaultConfig(), now)

	assert.True(t, stats.Revenue.IsZero())
	assert.True(t, stats.NetProfit.IsZero())
	assert.NotNil(t, stats.LowStock)
	assert.NotNil(t, stats.NearingExpiry)
	assert.Empty(t, stats.LowStock)
}

func TestCompute_Alerts(t *testing.T) {
	var items []*inventory.Item
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, item(name, "1", "1", nil))
	}
	items = append(items,
		item("late", "100", "1", at(2)),
		item("soon", "100", "1", at(1)),
		item("expired", "100", "1", at(-1)),
		item("far", "100", "1", at(6)),
	)

	cfg := dashboard.DefaultConfig()
	stats := dashboard.Compute(dashboard.Input{Inventory: items}, cfg, now)

	require.Len(t, stats.LowStock, cfg.AlertLimit)
	assert.Equal(t, "a", stats.LowStock[0].Name)

	require.Len(t, stats.NearingExpiry, 3)
	assert.Equal(t, "expired", stats.NearingExpiry[0].Name)
	assert.Equal(t, "soon", stats.NearingExpiry[1].Name)
	assert.Equal(t, "late", stats.NearingExpiry[2].Name)
}

func TestCompute_CustomRatio(t *testing.T) {
	cfg := dashboard.DefaultConfig()
	cfg.COGSRatio = types.MustDecimal("0.25")
	stats := dashboard.Compute(dashboard.Input{
		Sales: []*sale.Sale{saleDoc("400", "400", sale.StatusCompleted)},
	}, cfg, now)

	assert.Equal(t, "100", stats.COGS.String())
	assert.Equal(t, "300", stats.NetProfit.String())
}

func TestService_LoadsCompletedSalesOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.Sales().Create(ctx, withReceipt(saleDoc("100", "100", sale.StatusCompleted), "R-1")))
	require.NoError(t, store.Sales().Create(ctx, withReceipt(saleDoc("50", "50", sale.StatusVoided), "R-2")))
	require.NoError(t, store.Expenses().Create(ctx, expense.NewExpense("RENT", types.MustDecimal("10"))))
	require.NoError(t, store.Inventory().Create(ctx, item("Oud Oil", "3", "2", nil)))

	svc := dashboard.NewService(store.Sales(), store.Expenses(), store.Inventory(), store)
	stats, err := svc.Get(ctx, dashboard.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "100", stats.Revenue.String())
	assert.Equal(t, "50", stats.NetProfit.String())
	assert.Equal(t, "6", stats.AssetValue.String())
	require.Len(t, stats.LowStock, 1)
}

func withReceipt(s *sale.Sale, receipt string) *sale.Sale {
	s.ReceiptNumber = receipt
	return s
}
