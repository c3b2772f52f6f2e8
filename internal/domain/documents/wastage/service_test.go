package wastage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/infrastructure/storage/memory"
)

func setup(t *testing.T, qty, cost string) (*wastage.Service, *memory.InventoryRepo, *inventory.Item) {
	t.Helper()
	store := memory.New()
	items := store.Inventory()
	bottle := inventory.NewItem("Bottle", "BOTTLE")
	bottle.Quantity = types.MustDecimal(qty)
	bottle.CostPerUnit = types.MustDecimal(cost)
	require.NoError(t, items.Create(context.Background(), bottle))
	return wastage.NewService(store.Wastage(), items, store), items, bottle
}

func quantity(t *testing.T, items *memory.InventoryRepo, itemID inventory.ItemID) string {
	t.Helper()
	item, err := items.GetByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity.String()
}

func TestLogWastage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, items, bottle := setup(t, "50", "1.5")

	doc, err := svc.Log(ctx, wastage.LogRequest{
		InventoryItemID: bottle.ID,
		Amount:          types.MustDecimal("5"),
		Reason:          "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "7.5", doc.Cost.String())
	assert.Equal(t, "45", quantity(t, items, bottle.ID))

	require.NoError(t, svc.Delete(ctx, doc.ID))
	assert.Equal(t, "50", quantity(t, items, bottle.ID))

	_, err = svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestLogWastage_FloorsAtZero(t *testing.T) {
	svc, items, bottle := setup(t, "3", "2")

	doc, err := svc.Log(context.Background(), wastage.LogRequest{
		InventoryItemID: bottle.ID,
		Amount:          types.MustDecimal("5"),
		Reason:          "broken crate",
	})
	require.NoError(t, err)
	assert.Equal(t, "10", doc.Cost.String())
	assert.Equal(t, "0", quantity(t, items, bottle.ID))
}

func TestLogWastage_Validation(t *testing.T) {
	ctx := context.Background()
	svc, items, bottle := setup(t, "50", "1")

	_, err := svc.Log(ctx, wastage.LogRequest{InventoryItemID: bottle.ID, Amount: types.MustDecimal("0"), Reason: "x"})
	require.Error(t, err)
	_, err = svc.Log(ctx, wastage.LogRequest{InventoryItemID: bottle.ID, Amount: types.MustDecimal("1")})
	require.Error(t, err)

	_, err = svc.Log(ctx, wastage.LogRequest{InventoryItemID: id.NewOf[inventory.Item](), Amount: types.MustDecimal("1"), Reason: "x"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Inventory item not found", appErr.Message)

	assert.Equal(t, "50", quantity(t, items, bottle.ID))
}

func TestUpdateWastage_RestoresOldAmountAndReprices(t *testing.T) {
	ctx := context.Background()
	svc, items, bottle := setup(t, "50", "2")

	doc, err := svc.Log(ctx, wastage.LogRequest{InventoryItemID: bottle.ID, Amount: types.MustDecimal("5"), Reason: "dropped"})
	require.NoError(t, err)

	// Unit cost changed since the record was logged.
	item, err := items.GetByID(ctx, bottle.ID)
	require.NoError(t, err)
	item.CostPerUnit = types.MustDecimal("3")
	require.NoError(t, items.Update(ctx, item))

	amount := types.MustDecimal("8")
	updated, err := svc.Update(ctx, doc.ID, wastage.UpdateRequest{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, "42", quantity(t, items, bottle.ID))
	assert.Equal(t, "24", updated.Cost.String())
	assert.Equal(t, "dropped", updated.Reason)
}

func TestDeleteWastage_ItemGone(t *testing.T) {
	ctx := context.Background()
	svc, items, bottle := setup(t, "50", "1")

	doc, err := svc.Log(ctx, wastage.LogRequest{InventoryItemID: bottle.ID, Amount: types.MustDecimal("5"), Reason: "dropped"})
	require.NoError(t, err)
	require.NoError(t, items.Delete(ctx, bottle.ID))

	require.NoError(t, svc.Delete(ctx, doc.ID))
	_, err = svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}
