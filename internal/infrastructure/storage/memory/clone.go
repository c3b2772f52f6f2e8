package memory

import (
	"slices"
	"time"

	"essenceflow/internal/domain/auth"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/domain/settings"
)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(t *time.Time) *time.Time { return clonePtr(t) }

func cloneItem(i *inventory.Item) *inventory.Item {
	c := *i
	c.ExpiryDate = cloneTime(i.ExpiryDate)
	c.VendorID = clonePtr(i.VendorID)
	return &c
}

func cloneProduct(p *product.Product) *product.Product {
	c := *p
	c.Ingredients = slices.Clone(p.Ingredients)
	c.Packaging = slices.Clone(p.Packaging)
	return &c
}

func cloneVendor(v *vendor.Vendor) *vendor.Vendor {
	c := *v
	return &c
}

func cloneCustomer(cu *customer.Customer) *customer.Customer {
	c := *cu
	return &c
}

func cloneSale(s *sale.Sale) *sale.Sale {
	c := *s
	c.CustomerID = clonePtr(s.CustomerID)
	c.Items = slices.Clone(s.Items)
	return &c
}

func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	c := *p
	c.Items = slices.Clone(p.Items)
	return &c
}

func cloneWastage(w *wastage.Wastage) *wastage.Wastage {
	c := *w
	return &c
}

func cloneExpense(e *expense.Expense) *expense.Expense {
	c := *e
	return &c
}

func cloneUser(u *auth.User) *auth.User {
	c := *u
	c.LastLoginAt = cloneTime(u.LastLoginAt)
	return &c
}

func cloneSettings(s *settings.BusinessSettings) *settings.BusinessSettings {
	if s == nil {
		return nil
	}
	c := *s
	c.Categories = slices.Clone(s.Categories)
	return &c
}
