package document_repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const purchaseTable = "purchases"

type purchaseLineRow struct {
	InventoryItemID uuid.UUID       `json:"inventoryItemId"`
	Quantity        decimal.Decimal `json:"quantity"`
	CostPerUnit     decimal.Decimal `json:"costPerUnit"`
}

type purchaseRow struct {
	ID              uuid.UUID         `db:"id"`
	VendorID        uuid.UUID         `db:"vendor_id"`
	Items           []purchaseLineRow `db:"items"`
	TotalAmount     decimal.Decimal   `db:"total_amount"`
	Date            time.Time         `db:"date"`
	ReferenceNumber string            `db:"reference_number"`
	entity.Versioned
	entity.Audit
}

func toPurchaseRow(p *purchase.Purchase) *purchaseRow {
	items := make([]purchaseLineRow, 0, len(p.Items))
	for _, l := range p.Items {
		items = append(items, purchaseLineRow{
			InventoryItemID: l.InventoryItemID.Raw(),
			Quantity:        l.Quantity,
			CostPerUnit:     l.CostPerUnit,
		})
	}
	return &purchaseRow{
		ID:              p.ID.Raw(),
		VendorID:        p.VendorID.Raw(),
		Items:           items,
		TotalAmount:     p.TotalAmount,
		Date:            p.Date,
		ReferenceNumber: p.ReferenceNumber,
		Versioned:       p.Versioned,
		Audit:           p.Audit,
	}
}

func (r *purchaseRow) toDomain() *purchase.Purchase {
	items := make([]purchase.Line, 0, len(r.Items))
	for _, l := range r.Items {
		items = append(items, purchase.Line{
			InventoryItemID: id.From[inventory.Item](l.InventoryItemID),
			Quantity:        l.Quantity,
			CostPerUnit:     l.CostPerUnit,
		})
	}
	return &purchase.Purchase{
		ID:              id.From[purchase.Purchase](r.ID),
		VendorID:        id.From[vendor.Vendor](r.VendorID),
		Items:           items,
		TotalAmount:     r.TotalAmount,
		Date:            r.Date.UTC(),
		ReferenceNumber: r.ReferenceNumber,
		Versioned:       r.Versioned,
		Audit:           r.Audit,
	}
}

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	base *postgres.BaseRepo[purchaseRow]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		base: postgres.NewBaseRepo[purchaseRow](txm, postgres.TableConfig{
			Table:   purchaseTable,
			Entity:  "Purchase",
			Search:  []string{"reference_number"},
			OrderBy: []string{"date DESC", "id DESC"},
			Unique: map[string]postgres.UniqueKey{
				"uq_purchases_reference_number": {Column: "reference_number", Field: "referenceNumber"},
			},
		}),
	}
}

func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.base.Insert(ctx, toPurchaseRow(p))
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID purchase.ID) (*purchase.Purchase, error) {
	row, err := r.base.Get(ctx, purchaseID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID purchase.ID) (*purchase.Purchase, error) {
	row, err := r.base.Get(ctx, purchaseID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	if err := r.base.Update(ctx, p.ID.Raw(), p.Version, toPurchaseRow(p)); err != nil {
		return err
	}
	p.SetVersion(p.Version + 1)
	return nil
}

func (r *PurchaseRepo) Delete(ctx context.Context, purchaseID purchase.ID) error {
	return r.base.Delete(ctx, purchaseID.Raw())
}

func (r *PurchaseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*purchase.Purchase]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*purchaseRow).toDomain), nil
}
