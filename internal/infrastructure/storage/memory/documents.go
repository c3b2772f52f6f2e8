package memory

import (
	"context"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/domain/documents/wastage"
)

// --- Sale ---

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	store *Store
}

var _ sale.Repository = (*SaleRepo)(nil)

// Sales returns the sale repository.
func (s *Store) Sales() *SaleRepo {
	return &SaleRepo{store: s}
}

func saleNewerFirst(a, b *sale.Sale) bool { return newerFirst(a.Date, b.Date) }

func (r *SaleRepo) Create(ctx context.Context, doc *sale.Sale) error {
	return r.store.do(ctx, func(d *dataset) error {
		for _, other := range d.sales.rows {
			if other.ReceiptNumber == doc.ReceiptNumber {
				return apperror.NewDuplicate("Sale", "receiptNumber", doc.ReceiptNumber)
			}
		}
		return d.sales.insert(doc.ID.Raw(), doc)
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID sale.ID) (*sale.Sale, error) {
	var out *sale.Sale
	err := r.store.do(ctx, func(d *dataset) error {
		var err error
		out, err = d.sales.get(saleID.Raw())
		return err
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, saleID sale.ID) (*sale.Sale, error) {
	return r.GetByID(ctx, saleID)
}

func (r *SaleRepo) SetStatus(ctx context.Context, saleID sale.ID, status sale.Status) error {
	return r.store.do(ctx, func(d *dataset) error {
		doc, err := d.sales.ref(saleID.Raw())
		if err != nil {
			return err
		}
		doc.Status = status
		doc.Version++
		doc.Touch()
		return nil
	})
}

func (r *SaleRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	var out domain.ListResult[*sale.Sale]
	err := r.store.do(ctx, func(d *dataset) error {
		out = listOf(d.sales, filter, func(s *sale.Sale) []string {
			return []string{s.ReceiptNumber, string(s.Status)}
		}, saleNewerFirst)
		return nil
	})
	return out, err
}

func (r *SaleRepo) ListByStatus(ctx context.Context, status sale.Status) ([]*sale.Sale, error) {
	var out []*sale.Sale
	err := r.store.do(ctx, func(d *dataset) error {
		out = d.sales.selectRows(func(s *sale.Sale) bool { return s.Status == status }, saleNewerFirst)
		return nil
	})
	return out, err
}

// --- Purchase ---

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	store *Store
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// Purchases returns the purchase repository.
func (s *Store) Purchases() *PurchaseRepo {
	return &PurchaseRepo{store: s}
}

func uniqueReference(d *dataset, doc *purchase.Purchase) error {
	if doc.ReferenceNumber == "" {
		return nil
	}
	for key, other := range d.purchases.rows {
		if key != doc.ID.Raw() && other.ReferenceNumber == doc.ReferenceNumber {
			return apperror.NewDuplicate("Purchase", "referenceNumber", doc.ReferenceNumber)
		}
	}
	return nil
}

func (r *PurchaseRepo) Create(ctx context.Context, doc *purchase.Purchase) error {
	return r.store.do(ctx, func(d *dataset) error {
		if err := uniqueReference(d, doc); err != nil {
			return err
		}
		return d.purchases.insert(doc.ID.Raw(), doc)
	})
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID purchase.ID) (*purchase.Purchase, error) {
	var out *purchase.Purchase
	err := r.store.do(ctx, func(d *dataset) error {
		var err error
		out, err = d.purchases.get(purchaseID.Raw())
		return err
	})
	return out, err
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID purchase.ID) (*purchase.Purchase, error) {
	return r.GetByID(ctx, purchaseID)
}

func (r *PurchaseRepo) Update(ctx context.Context, doc *purchase.Purchase) error {
	return r.store.do(ctx, func(d *dataset) error {
		stored, err := d.purchases.ref(doc.ID.Raw())
		if err != nil {
			return err
		}
		if err := checkVersion("Purchase", doc.ID.Raw(), stored.Version, doc.Version); err != nil {
			return err
		}
		if err := uniqueReference(d, doc); err != nil {
			return err
		}
		doc.Version++
		d.purchases.put(doc.ID.Raw(), doc)
		return nil
	})
}

func (r *PurchaseRepo) Delete(ctx context.Context, purchaseID purchase.ID) error {
	return r.store.do(ctx, func(d *dataset) error {
		return d.purchases.remove(purchaseID.Raw())
	})
}

func (r *PurchaseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	var out domain.ListResult[*purchase.Purchase]
	err := r.store.do(ctx, func(d *dataset) error {
		out = listOf(d.purchases, filter, func(p *purchase.Purchase) []string {
			return []string{p.ReferenceNumber}
		}, func(a, b *purchase.Purchase) bool { return newerFirst(a.Date, b.Date) })
		return nil
	})
	return out, err
}

// --- Wastage ---

// WastageRepo implements wastage.Repository.
type WastageRepo struct {
	store *Store
}

var _ wastage.Repository = (*WastageRepo)(nil)

// Wastage returns the wastage repository.
func (s *Store) Wastage() *WastageRepo {
	return &WastageRepo{store: s}
}

func (r *WastageRepo) Create(ctx context.Context, w *wastage.Wastage) error {
	return r.store.do(ctx, func(d *dataset) error {
		return d.wastage.insert(w.ID.Raw(), w)
	})
}

func (r *WastageRepo) GetByID(ctx context.Context, wastageID wastage.ID) (*wastage.Wastage, error) {
	var out *wastage.Wastage
	err := r.store.do(ctx, func(d *dataset) error {
		var err error
		out, err = d.wastage.get(wastageID.Raw())
		return err
	})
	return out, err
}

func (r *WastageRepo) GetForUpdate(ctx context.Context, wastageID wastage.ID) (*wastage.Wastage, error) {
	return r.GetByID(ctx, wastageID)
}

func (r *WastageRepo) Update(ctx context.Context, w *wastage.Wastage) error {
	return r.store.do(ctx, func(d *dataset) error {
		stored, err := d.wastage.ref(w.ID.Raw())
		if err != nil {
			return err
		}
		if err := checkVersion("Wastage record", w.ID.Raw(), stored.Version, w.Version); err != nil {
			return err
		}
		w.Version++
		d.wastage.put(w.ID.Raw(), w)
		return nil
	})
}

func (r *WastageRepo) Delete(ctx context.Context, wastageID wastage.ID) error {
	return r.store.do(ctx, func(d *dataset) error {
		return d.wastage.remove(wastageID.Raw())
	})
}

func (r *WastageRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*wastage.Wastage], error) {
	var out domain.ListResult[*wastage.Wastage]
	err := r.store.do(ctx, func(d *dataset) error {
		out = listOf(d.wastage, filter, func(w *wastage.Wastage) []string {
			return []string{w.Reason}
		}, func(a, b *wastage.Wastage) bool { return newerFirst(a.Date, b.Date) })
		return nil
	})
	return out, err
}
