package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
)

const itemCols = "id, name, category, quantity, cost_per_unit, min_threshold, batch_number, " +
	"expiry_date, vendor_id, version, created_at, updated_at"

func TestInventoryRepo_ListQueries(t *testing.T) {
	repo := NewInventoryRepo(nil)

	tests := []struct {
		name      string
		filter    domain.ListFilter
		wantPage  string
		wantCount string
		wantArgs  []any
	}{
		{
			name:      "no search",
			filter:    domain.ListFilter{},
			wantPage:  "SELECT " + itemCols + " FROM inventory_items ORDER BY name ASC, id ASC",
			wantCount: "SELECT COUNT(*) FROM inventory_items",
		},
		{
			name:   "search with paging",
			filter: domain.ListFilter{Search: "oud", Limit: 10, Offset: 20},
			wantPage: "SELECT " + itemCols + " FROM inventory_items " +
				"WHERE (name ILIKE $1 OR category ILIKE $2 OR batch_number ILIKE $3) " +
				"ORDER BY name ASC, id ASC LIMIT 10 OFFSET 20",
			wantCount: "SELECT COUNT(*) FROM inventory_items " +
				"WHERE (name ILIKE $1 OR category ILIKE $2 OR batch_number ILIKE $3)",
			wantArgs: []any{"%oud%", "%oud%", "%oud%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, count := repo.base.ListQueries(tt.filter)

			sql, args, err := page.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, sql)
			assert.Equal(t, len(tt.wantArgs), len(args))
			for i := range tt.wantArgs {
				assert.Equal(t, tt.wantArgs[i], args[i])
			}

			sql, _, err = count.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, sql)
		})
	}
}

func TestVendorRepo_UpdateQuery(t *testing.T) {
	repo := NewVendorRepo(nil)
	v := vendor.NewVendor("Grasse Essentials")
	v.Email = "orders@grasse.example"
	v.Phone = "+33 4 93 00 00 00"
	v.LeadTime = 14
	v.Versioned = entity.Versioned{Version: 3}

	q, data := repo.base.UpdateQuery(v.ID.Raw(), v.Version, toVendorRow(v))
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE vendors SET email = $1, lead_time_days = $2, name = $3, phone = $4, "+
			"version = version + 1, updated_at = NOW() WHERE id = $5 AND version = $6",
		sql)
	require.Len(t, args, 6)
	assert.Equal(t, "orders@grasse.example", args[0])
	assert.Equal(t, 14, args[1])
	assert.Equal(t, v.ID.String(), args[4])
	assert.Equal(t, 3, args[5])

	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "created_at")
}

func TestProductRepo_UsesItemCondition(t *testing.T) {
	itemID := id.NewOf[inventory.Item]()

	cond, err := usesItemCondition(itemID)
	require.NoError(t, err)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(ingredients @> ?::jsonb OR packaging @> ?::jsonb)", sql)
	contains := `[{"inventoryItemId":"` + itemID.String() + `"}]`
	assert.Equal(t, []any{contains, contains}, args)
}

func TestInventoryRow_RoundTrip(t *testing.T) {
	item := inventory.NewItem("Oud Oil", "OIL")
	vendorID := id.NewOf[vendor.Vendor]()
	item.VendorID = &vendorID
	item.BatchNumber = "B-17"

	got := toItemRow(item).toDomain()

	assert.Equal(t, item.ID, got.ID)
	require.NotNil(t, got.VendorID)
	assert.Equal(t, vendorID, *got.VendorID)
	assert.Equal(t, "B-17", got.BatchNumber)
	assert.True(t, item.MinThreshold.Equal(got.MinThreshold))

	item.VendorID = nil
	assert.Nil(t, toItemRow(item).toDomain().VendorID)
}
