package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/numerator"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/infrastructure/storage/memory"
)

type fixture struct {
	products  *memory.ProductRepo
	customers *memory.CustomerRepo
	sales     *memory.SaleRepo
	svc       *sale.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{products: store.Products(), customers: store.Customers(), sales: store.Sales()}
	f.svc = sale.NewService(f.sales, f.products, f.customers, store, store.Numerator())
	return f
}

func (f *fixture) product(t *testing.T, name, stock string) *product.Product {
	t.Helper()
	p := product.NewProduct("SKU-"+name, name)
	p.SellingPrice = types.MustDecimal("500")
	p.CurrentStock = types.MustDecimal(stock)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) customer(t *testing.T, spent string) *customer.Customer {
	t.Helper()
	c := customer.NewCustomer("Amira", "+971500000000")
	c.TotalSpent = types.MustDecimal(spent)
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) stock(t *testing.T, productID product.ID) string {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock.String()
}

func (f *fixture) spent(t *testing.T, customerID customer.ID) string {
	t.Helper()
	c, err := f.customers.GetByID(context.Background(), customerID)
	require.NoError(t, err)
	return c.TotalSpent.String()
}

func saleOf(p *product.Product, qty, total string, customerID *customer.ID) sale.CreateRequest {
	return sale.CreateRequest{
		CustomerID: customerID,
		Items: []sale.Line{{
			ProductID: p.ID,
			Quantity:  types.MustDecimal(qty),
			UnitPrice: p.SellingPrice,
			Total:     types.MustDecimal(total),
		}},
		Subtotal: types.MustDecimal(total),
		Discount: types.Zero(),
		Total:    types.MustDecimal(total),
	}
}

func TestCreateSale_DecrementsStockAndCreditsCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")
	c := f.customer(t, "250")

	doc, err := f.svc.Create(ctx, saleOf(p, "2", "1000", &c.ID))
	require.NoError(t, err)

	assert.Equal(t, sale.StatusCompleted, doc.Status)
	assert.Regexp(t, `^RCP-\d{4}-00001$`, doc.ReceiptNumber)
	assert.Equal(t, "3", f.stock(t, p.ID))
	assert.Equal(t, "1250", f.spent(t, c.ID))
}

func TestVoidSale_RestoresStateAndRejectsSecondVoid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")
	c := f.customer(t, "0")

	doc, err := f.svc.Create(ctx, saleOf(p, "2", "1000", &c.ID))
	require.NoError(t, err)

	voided, err := f.svc.Void(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusVoided, voided.Status)
	assert.Equal(t, "5", f.stock(t, p.ID))
	assert.Equal(t, "0", f.spent(t, c.ID))

	_, err = f.svc.Void(ctx, doc.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, "Sale already voided", appErr.Message)

	assert.Equal(t, "5", f.stock(t, p.ID))
	assert.Equal(t, "0", f.spent(t, c.ID))
	stored, err := f.sales.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusVoided, stored.Status)
}

func TestCreateSale_InsufficientStockIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "Amber", "10")
	b := f.product(t, "Bergamot", "1")
	c := f.customer(t, "0")

	req := sale.CreateRequest{
		CustomerID: &c.ID,
		Items: []sale.Line{
			{ProductID: a.ID, Quantity: types.MustDecimal("4"), UnitPrice: types.MustDecimal("10"), Total: types.MustDecimal("40")},
			{ProductID: b.ID, Quantity: types.MustDecimal("2"), UnitPrice: types.MustDecimal("10"), Total: types.MustDecimal("20")},
		},
		Subtotal: types.MustDecimal("60"),
		Total:    types.MustDecimal("60"),
	}

	_, err := f.svc.Create(ctx, req)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Bergamot. Available: 1")

	assert.Equal(t, "10", f.stock(t, a.ID))
	assert.Equal(t, "1", f.stock(t, b.ID))
	assert.Equal(t, "0", f.spent(t, c.ID))

	list, err := f.svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateSale_WalkInAndUnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")

	doc, err := f.svc.Create(ctx, saleOf(p, "5", "2500", nil))
	require.NoError(t, err)
	assert.Nil(t, doc.CustomerID)
	assert.Equal(t, "0", f.stock(t, p.ID))

	ghost := product.NewProduct("SKU-ghost", "Ghost")
	_, err = f.svc.Create(ctx, saleOf(ghost, "1", "500", nil))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "Product "+ghost.ID.String()+" not found", appErr.Message)
}

func TestCreateSale_DuplicateReceiptRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")

	req := saleOf(p, "1", "500", nil)
	req.ReceiptNumber = "RCP-MANUAL-1"
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, req)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, "4", f.stock(t, p.ID))
}

func TestVoidSale_SkipsDeletedProductAndCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")
	c := f.customer(t, "0")

	doc, err := f.svc.Create(ctx, saleOf(p, "2", "1000", &c.ID))
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.customers.Delete(ctx, c.ID))

	voided, err := f.svc.Void(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusVoided, voided.Status)
}

func TestVoidSale_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Void(context.Background(), id.NewOf[sale.Sale]())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 404, apperror.GetHTTPStatus(err))
}

func TestCreateSale_NumberingFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(context.Context, numerator.Config, *numerator.Options, time.Time) (string, error) {
			return "", errors.New("sequence unavailable")
		},
	}
	svc := sale.NewService(store.Sales(), store.Products(), store.Customers(), store, gen)

	p := product.NewProduct("SKU-oud", "Oud 30ml")
	p.SellingPrice = types.MustDecimal("500")
	p.CurrentStock = types.MustDecimal("5")
	require.NoError(t, store.Products().Create(ctx, p))

	_, err := svc.Create(ctx, saleOf(p, "2", "1000", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence unavailable")

	stored, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", stored.CurrentStock.String())
}

func TestCreateSale_SequentialReceiptNumbers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := sale.NewService(store.Sales(), store.Products(), store.Customers(), store, &numerator.MockGenerator{})

	p := product.NewProduct("SKU-oud", "Oud 30ml")
	p.SellingPrice = types.MustDecimal("500")
	p.CurrentStock = types.MustDecimal("5")
	require.NoError(t, store.Products().Create(ctx, p))

	first, err := svc.Create(ctx, saleOf(p, "1", "500", nil))
	require.NoError(t, err)
	second, err := svc.Create(ctx, saleOf(p, "1", "500", nil))
	require.NoError(t, err)

	assert.Regexp(t, `00001$`, first.ReceiptNumber)
	assert.Regexp(t, `00002$`, second.ReceiptNumber)
}

type productLocks struct {
	product.Repository
	locked []product.ID
}

func (r *productLocks) GetForUpdate(ctx context.Context, productID product.ID) (*product.Product, error) {
	r.locked = append(r.locked, productID)
	return r.Repository.GetForUpdate(ctx, productID)
}

func TestCreateAndVoidSale_LockProductsInIDOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	rec := &productLocks{Repository: store.Products()}
	svc := sale.NewService(store.Sales(), rec, store.Customers(), store, store.Numerator())

	var ps []*product.Product
	for _, name := range []string{"Amber", "Bergamot", "Cedar"} {
		p := product.NewProduct("SKU-"+name, name)
		p.CurrentStock = types.MustDecimal("10")
		require.NoError(t, store.Products().Create(ctx, p))
		ps = append(ps, p)
	}
	want := id.SortedUnique([]product.ID{ps[0].ID, ps[1].ID, ps[2].ID})

	req := sale.CreateRequest{
		Items: []sale.Line{
			{ProductID: ps[2].ID, Quantity: types.MustDecimal("1"), UnitPrice: types.MustDecimal("1"), Total: types.MustDecimal("1")},
			{ProductID: ps[0].ID, Quantity: types.MustDecimal("2"), UnitPrice: types.MustDecimal("1"), Total: types.MustDecimal("2")},
			{ProductID: ps[1].ID, Quantity: types.MustDecimal("3"), UnitPrice: types.MustDecimal("1"), Total: types.MustDecimal("3")},
			{ProductID: ps[2].ID, Quantity: types.MustDecimal("4"), UnitPrice: types.MustDecimal("1"), Total: types.MustDecimal("4")},
		},
		Subtotal: types.MustDecimal("10"),
		Total:    types.MustDecimal("10"),
	}
	doc, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, want, rec.locked)

	stocks := func() []string {
		var out []string
		for _, p := range ps {
			stored, err := store.Products().GetByID(ctx, p.ID)
			require.NoError(t, err)
			out = append(out, stored.CurrentStock.String())
		}
		return out
	}
	assert.Equal(t, []string{"8", "7", "5"}, stocks())

	rec.locked = nil
	_, err = svc.Void(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, want, rec.locked)
	assert.Equal(t, []string{"10", "10", "10"}, stocks())
}

func TestCreateSale_RepeatedProductDrawsFromOneBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Oud 30ml", "5")

	req := saleOf(p, "3", "1500", nil)
	req.Items = append(req.Items, req.Items[0])
	_, err := f.svc.Create(ctx, req)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Oud 30ml. Available: 2")
	assert.Equal(t, "5", f.stock(t, p.ID))
}
