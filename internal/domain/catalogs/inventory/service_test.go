package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/infrastructure/storage/memory"
)

func TestDeleteItem_BlockedWhileInFormulation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	items, products := store.Inventory(), store.Products()
	svc := inventory.NewService(items, store, product.NewFormulationLookup(products))

	oud := inventory.NewItem("Oud Oil", "OIL")
	oud.Quantity = types.MustDecimal("100")
	require.NoError(t, items.Create(ctx, oud))

	goldCap := inventory.NewItem("Gold Cap", "CAP")
	require.NoError(t, items.Create(ctx, goldCap))

	p := product.NewProduct("OUD-30", "Oud 30ml")
	p.Ingredients = []product.Component{{InventoryItemID: oud.ID, AmountPerUnit: types.MustDecimal("30")}}
	p.Packaging = []product.Component{{InventoryItemID: goldCap.ID, AmountPerUnit: types.MustDecimal("1")}}
	require.NoError(t, products.Create(ctx, p))

	for _, target := range []*inventory.Item{oud, goldCap} {
		err := svc.Delete(ctx, target.ID)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeReferentialIntegrity, appErr.Code)
		assert.Equal(t, 400, appErr.HTTPStatus)
		assert.Contains(t, appErr.Message, "Oud 30ml")
		assert.Contains(t, appErr.Message, target.Name)

		_, err = items.GetByID(ctx, target.ID)
		require.NoError(t, err, "item must survive a blocked delete")
	}

	require.NoError(t, products.Delete(ctx, p.ID))
	require.NoError(t, svc.Delete(ctx, oud.ID))
	_, err := svc.GetByID(ctx, oud.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestIncreaseAndDecreaseClamped(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	items := store.Inventory()

	item := inventory.NewItem("Amber", "OIL")
	item.Quantity = types.MustDecimal("5")
	require.NoError(t, items.Create(ctx, item))

	got, err := inventory.Increase(ctx, items, item.ID, types.MustDecimal("2.25"))
	require.NoError(t, err)
	assert.Equal(t, "7.25", got.Quantity.String())

	got, ok, err := inventory.DecreaseClamped(ctx, items, item.ID, types.MustDecimal("10"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Quantity.IsZero())

	_, ok, err = inventory.DecreaseClamped(ctx, items, id.NewOf[inventory.Item](), types.MustDecimal("1"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = inventory.Increase(ctx, items, id.NewOf[inventory.Item](), types.MustDecimal("1"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemAlerts(t *testing.T) {
	item := inventory.NewItem("Vial", "BOTTLE")
	item.Quantity = types.MustDecimal("10")
	item.CostPerUnit = types.MustDecimal("0.5")

	assert.True(t, item.IsLowStock(), "quantity equal to threshold counts as low")
	assert.Equal(t, "5", item.StockValue().String())

	item.Quantity = types.MustDecimal("11")
	assert.False(t, item.IsLowStock())
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()
	item := inventory.NewItem("", "OIL")
	assert.Error(t, item.Validate(ctx))

	item = inventory.NewItem("Oil", "OIL")
	item.CostPerUnit = types.MustDecimal("-1")
	assert.Error(t, item.Validate(ctx))

	item.CostPerUnit = types.MustDecimal("1")
	assert.NoError(t, item.Validate(ctx))
}

type itemLocks struct {
	inventory.Repository
	locked []inventory.ItemID
}

func (r *itemLocks) GetForUpdate(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	r.locked = append(r.locked, itemID)
	return r.Repository.GetForUpdate(ctx, itemID)
}

func TestDeleteItem_LocksItemBeforeCheckingFormulations(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	rec := &itemLocks{Repository: store.Inventory()}
	svc := inventory.NewService(rec, store, product.NewFormulationLookup(store.Products()))

	rose := inventory.NewItem("Rose Oil", "OIL")
	require.NoError(t, store.Inventory().Create(ctx, rose))

	require.NoError(t, svc.Delete(ctx, rose.ID))
	assert.Equal(t, []inventory.ItemID{rose.ID}, rec.locked)

	_, err := store.Inventory().GetByID(ctx, rose.ID)
	assert.True(t, apperror.IsNotFound(err))
}
