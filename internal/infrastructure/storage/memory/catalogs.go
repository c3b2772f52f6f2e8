package memory

import (
	"context"
	"strings"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/expense"
)

// --- Inventory ---

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	*catalogRepo[*inventory.Item, inventory.Item]
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// Inventory returns the inventory item repository.
func (s *Store) Inventory() *InventoryRepo {
	return &InventoryRepo{&catalogRepo[*inventory.Item, inventory.Item]{
		store:  s,
		table:  func(d *dataset) *table[*inventory.Item] { return d.items },
		fields: func(i *inventory.Item) []string { return []string{i.Name, i.Category, i.BatchNumber} },
		less:   func(a, b *inventory.Item) bool { return a.Name < b.Name },
	}}
}

// GetForUpdate returns the item. Row locking is implied by serialized transactions.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	return r.GetByID(ctx, itemID)
}

func (r *InventoryRepo) SetQuantity(ctx context.Context, itemID inventory.ItemID, qty types.Quantity) error {
	return r.store.do(ctx, func(d *dataset) error {
		item, err := d.items.ref(itemID.Raw())
		if err != nil {
			return err
		}
		item.Quantity = qty
		item.Version++
		item.Touch()
		return nil
	})
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]*inventory.Item, error) {
	return r.all(ctx)
}

// --- Product ---

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*catalogRepo[*product.Product, product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// Products returns the finished product repository.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{&catalogRepo[*product.Product, product.Product]{
		store:  s,
		table:  func(d *dataset) *table[*product.Product] { return d.products },
		fields: func(p *product.Product) []string { return []string{p.Name, p.SKU} },
		less:   func(a, b *product.Product) bool { return a.Name < b.Name },
		unique: func(d *dataset, p *product.Product) error {
			for key, other := range d.products.rows {
				if key != p.ID.Raw() && strings.EqualFold(other.SKU, p.SKU) {
					return apperror.NewDuplicate("Product", "sku", p.SKU)
				}
			}
			return nil
		},
	}}
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, productID product.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) SetStock(ctx context.Context, productID product.ID, stock types.Quantity) error {
	return r.store.do(ctx, func(d *dataset) error {
		p, err := d.products.ref(productID.Raw())
		if err != nil {
			return err
		}
		p.CurrentStock = stock
		p.Version++
		p.Touch()
		return nil
	})
}

func (r *ProductRepo) FindUsingItem(ctx context.Context, itemID inventory.ItemID) ([]*product.Product, error) {
	var out []*product.Product
	err := r.store.do(ctx, func(d *dataset) error {
		out = d.products.selectRows(func(p *product.Product) bool { return p.Uses(itemID) }, r.less)
		return nil
	})
	return out, err
}

// --- Vendor ---

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	*catalogRepo[*vendor.Vendor, vendor.Vendor]
}

var _ vendor.Repository = (*VendorRepo)(nil)

// Vendors returns the vendor repository.
func (s *Store) Vendors() *VendorRepo {
	return &VendorRepo{&catalogRepo[*vendor.Vendor, vendor.Vendor]{
		store:  s,
		table:  func(d *dataset) *table[*vendor.Vendor] { return d.vendors },
		fields: func(v *vendor.Vendor) []string { return []string{v.Name, v.Email, v.Phone} },
		less:   func(a, b *vendor.Vendor) bool { return a.Name < b.Name },
	}}
}

// --- Customer ---

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*catalogRepo[*customer.Customer, customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// Customers returns the customer repository.
func (s *Store) Customers() *CustomerRepo {
	return &CustomerRepo{&catalogRepo[*customer.Customer, customer.Customer]{
		store:  s,
		table:  func(d *dataset) *table[*customer.Customer] { return d.customers },
		fields: func(c *customer.Customer) []string { return []string{c.Name, c.Email, c.Phone} },
		less:   func(a, b *customer.Customer) bool { return a.Name < b.Name },
	}}
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID customer.ID) (*customer.Customer, error) {
	return r.GetByID(ctx, customerID)
}

func (r *CustomerRepo) SetTotalSpent(ctx context.Context, customerID customer.ID, total types.Money) error {
	return r.store.do(ctx, func(d *dataset) error {
		c, err := d.customers.ref(customerID.Raw())
		if err != nil {
			return err
		}
		c.TotalSpent = total
		c.Version++
		c.Touch()
		return nil
	})
}

// --- Expense ---

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	*catalogRepo[*expense.Expense, expense.Expense]
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// Expenses returns the expense repository.
func (s *Store) Expenses() *ExpenseRepo {
	return &ExpenseRepo{&catalogRepo[*expense.Expense, expense.Expense]{
		store:  s,
		table:  func(d *dataset) *table[*expense.Expense] { return d.expenses },
		fields: func(e *expense.Expense) []string { return []string{e.Category, e.Description} },
		less:   func(a, b *expense.Expense) bool { return newerFirst(a.Date, b.Date) },
	}}
}

func (r *ExpenseRepo) ListAll(ctx context.Context) ([]*expense.Expense, error) {
	return r.all(ctx)
}

func newerFirst(a, b time.Time) bool {
	return a.After(b)
}
