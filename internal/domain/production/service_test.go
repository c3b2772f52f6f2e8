package production_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/production"
	"essenceflow/internal/infrastructure/storage/memory"
)

type fixture struct {
	store    *memory.Store
	items    *memory.InventoryRepo
	products *memory.ProductRepo
	svc      *production.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{store: store, items: store.Inventory(), products: store.Products()}
	f.svc = production.NewService(f.products, f.items, store)
	return f
}

func (f *fixture) item(t *testing.T, name, category, qty, cost string) *inventory.Item {
	t.Helper()
	item := inventory.NewItem(name, category)
	item.Quantity = types.MustDecimal(qty)
	item.CostPerUnit = types.MustDecimal(cost)
	require.NoError(t, f.items.Create(context.Background(), item))
	return item
}

func (f *fixture) product(t *testing.T, name string, ingredients, packaging []product.Component) *product.Product {
	t.Helper()
	p := product.NewProduct("SKU-"+name, name)
	p.Ingredients = ingredients
	p.Packaging = packaging
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) qty(t *testing.T, itemID inventory.ItemID) string {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity.String()
}

func (f *fixture) stock(t *testing.T, productID product.ID) string {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock.String()
}

func line(itemID inventory.ItemID, amount string) product.Component {
	return product.Component{InventoryItemID: itemID, AmountPerUnit: types.MustDecimal(amount)}
}

func TestProduceBatch_ConsumesIngredients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	oud := f.item(t, "Oud Oil", "OIL", "100", "10")
	p := f.product(t, "Oud 30ml", []product.Component{line(oud.ID, "30")}, nil)

	res, err := f.svc.ProduceBatch(ctx, p.ID, types.MustDecimal("3"))
	require.NoError(t, err)

	assert.Equal(t, "Production successful", res.Message)
	assert.Equal(t, "3", res.Product.CurrentStock.String())
	assert.Equal(t, "10", f.qty(t, oud.ID))
	assert.Equal(t, "3", f.stock(t, p.ID))
}

func TestProduceBatch_InsufficientStockLeavesItemsUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	oud := f.item(t, "Oud Oil", "OIL", "100", "10")
	p := f.product(t, "Oud 30ml", []product.Component{line(oud.ID, "30")}, nil)

	_, err := f.svc.ProduceBatch(ctx, p.ID, types.MustDecimal("4"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Equal(t, "Insufficient stock for Oud Oil. Needed: 120, Available: 100", appErr.Message)

	assert.Equal(t, "100", f.qty(t, oud.ID))
	assert.Equal(t, "0", f.stock(t, p.ID))
}

func TestProduceBatch_ExactStockSucceeds(t *testing.T) {
	f := newFixture(t)
	rose := f.item(t, "Rose Oil", "OIL", "60", "4")
	p := f.product(t, "Rose 30ml", []product.Component{line(rose.ID, "30")}, nil)

	_, err := f.svc.ProduceBatch(context.Background(), p.ID, types.MustDecimal("2"))
	require.NoError(t, err)
	assert.Equal(t, "0", f.qty(t, rose.ID))
}

func TestProduceBatch_LaterLineFailureRollsBackEarlierLines(t *testing.T) {
	f := newFixture(t)
	oil := f.item(t, "Musk Oil", "OIL", "100", "2")
	bottle := f.item(t, "Bottle 30ml", "BOTTLE", "1", "1")
	p := f.product(t, "Musk 30ml",
		[]product.Component{line(oil.ID, "30")},
		[]product.Component{line(bottle.ID, "1")},
	)

	_, err := f.svc.ProduceBatch(context.Background(), p.ID, types.MustDecimal("2"))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Bottle 30ml. Needed: 2, Available: 1")

	assert.Equal(t, "100", f.qty(t, oil.ID))
	assert.Equal(t, "1", f.qty(t, bottle.ID))
	assert.Equal(t, "0", f.stock(t, p.ID))
}

func TestProduceBatch_SharedItemLinesAccumulate(t *testing.T) {
	f := newFixture(t)
	base := f.item(t, "Carrier", "OIL", "50", "1")
	p := f.product(t, "Blend",
		[]product.Component{line(base.ID, "10"), line(base.ID, "10")},
		nil,
	)

	_, err := f.svc.ProduceBatch(context.Background(), p.ID, types.MustDecimal("3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Needed: 30, Available: 20")
	assert.Equal(t, "50", f.qty(t, base.ID))

	_, err = f.svc.ProduceBatch(context.Background(), p.ID, types.MustDecimal("2"))
	require.NoError(t, err)
	assert.Equal(t, "10", f.qty(t, base.ID))
}

func TestProduceBatch_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	oud := f.item(t, "Oud Oil", "OIL", "100", "10")
	p := f.product(t, "Oud 30ml", []product.Component{line(oud.ID, "30")}, nil)

	for _, q := range []string{"0", "-1"} {
		_, err := f.svc.ProduceBatch(ctx, p.ID, types.MustDecimal(q))
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, "Invalid quantity", appErr.Message)
	}

	_, err := f.svc.ProduceBatch(ctx, id.NewOf[product.Product](), types.MustDecimal("1"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "Product not found", mustAppErr(t, err).Message)
}

func TestProduceBatch_MissingComponent(t *testing.T) {
	f := newFixture(t)
	ghost := id.NewOf[inventory.Item]()
	p := product.NewProduct("SKU-X", "Orphan")
	p.Packaging = []product.Component{line(ghost, "1")}
	require.NoError(t, f.products.Create(context.Background(), p))

	_, err := f.svc.ProduceBatch(context.Background(), p.ID, types.MustDecimal("1"))
	require.Error(t, err)
	appErr := mustAppErr(t, err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "Packaging "+ghost.String()+" not found", appErr.Message)
}

func mustAppErr(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr
}

// lockRecorder records the order of row locks.
type lockRecorder struct {
	inventory.Repository
	locked []inventory.ItemID
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	r.locked = append(r.locked, itemID)
	return r.Repository.GetForUpdate(ctx, itemID)
}

func TestProduceBatch_LocksItemsInIDOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.item(t, "Oud Oil", "OIL", "100", "1")
	second := f.item(t, "Rose Oil", "OIL", "100", "1")
	bottle := f.item(t, "50ml Bottle", "BOTTLE", "100", "1")

	forward := f.product(t, "Forward", []product.Component{line(first.ID, "1"), line(second.ID, "1")}, []product.Component{line(bottle.ID, "1")})
	backward := f.product(t, "Backward", []product.Component{line(second.ID, "1"), line(first.ID, "1")}, []product.Component{line(bottle.ID, "1")})

	want := id.SortedUnique([]inventory.ItemID{first.ID, second.ID, bottle.ID})
	for _, p := range []*product.Product{forward, backward} {
		rec := &lockRecorder{Repository: f.items}
		svc := production.NewService(f.products, rec, f.store)
		_, err := svc.ProduceBatch(ctx, p.ID, types.MustDecimal("2"))
		require.NoError(t, err)
		assert.Equal(t, want, rec.locked, p.Name)
		assert.True(t, slices.IsSortedFunc(rec.locked, inventory.ItemID.Compare))
	}

	assert.Equal(t, "96", f.qty(t, first.ID))
	assert.Equal(t, "96", f.qty(t, second.ID))
	assert.Equal(t, "96", f.qty(t, bottle.ID))
}

func TestProduceBatch_ReportsFirstFailingLineInFormulationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.item(t, "Amber Oil", "OIL", "1", "1")
	b := f.item(t, "Benzoin", "OIL", "1", "1")

	// Both lines are short; the message names the first line of the formulation.
	p := f.product(t, "Resin", []product.Component{line(b.ID, "5"), line(a.ID, "5")}, nil)
	_, err := f.svc.ProduceBatch(ctx, p.ID, types.MustDecimal("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock for Benzoin. Needed: 5, Available: 1")
}
