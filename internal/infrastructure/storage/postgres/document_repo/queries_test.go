package document_repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/documents/sale"
)

func TestSaleRepo_ListQueries_NewestFirst(t *testing.T) {
	repo := NewSaleRepo(nil)

	page, _ := repo.base.ListQueries(domain.ListFilter{Search: "RCP-2026", Limit: 5})
	sql, args, err := page.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, receipt_number, customer_id, items, subtotal, discount, total, status, date, "+
			"version, created_at, updated_at FROM sales WHERE (receipt_number ILIKE $1) "+
			"ORDER BY date DESC, id DESC LIMIT 5",
		sql)
	assert.Equal(t, []any{"%RCP-2026%"}, args)
}

func TestPurchaseRepo_UpdateQueryKeepsVersionCheck(t *testing.T) {
	repo := NewPurchaseRepo(nil)

	q, data := repo.base.UpdateQuery(id.New(), 7, &purchaseRow{ReferenceNumber: "PO-2026-00001"})
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "version = version + 1")
	assert.Contains(t, sql, "WHERE id = $")
	assert.Equal(t, 7, args[len(args)-1])
	assert.Equal(t, "PO-2026-00001", data["reference_number"])
}

func TestSaleRow_RoundTrip(t *testing.T) {
	customerID := id.NewOf[customer.Customer]()
	doc := sale.NewSale([]sale.Line{{
		ProductID: id.NewOf[product.Product](),
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(500),
		Total:     decimal.NewFromInt(1000),
	}})
	doc.CustomerID = &customerID
	doc.ReceiptNumber = "RCP-2026-00001"
	doc.Total = decimal.NewFromInt(1000)

	row := toSaleRow(doc)
	assert.Equal(t, "COMPLETED", row.Status)
	require.Len(t, row.Items, 1)

	got := row.toDomain()
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, sale.StatusCompleted, got.Status)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, customerID, *got.CustomerID)
	assert.Equal(t, doc.Items[0].ProductID, got.Items[0].ProductID)
	assert.True(t, doc.Items[0].Total.Equal(got.Items[0].Total))
}

func TestWalkInSaleRow(t *testing.T) {
	doc := sale.NewSale(nil)
	row := toSaleRow(doc)

	assert.Nil(t, row.CustomerID)
	assert.NotNil(t, row.Items)
	assert.Nil(t, row.toDomain().CustomerID)
}
