// Package document_repo provides PostgreSQL implementations for document repositories.
// Line items are stored as JSONB arrays on the document row.
package document_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const saleTable = "sales"

type saleLineRow struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

type saleRow struct {
	ID            uuid.UUID       `db:"id"`
	ReceiptNumber string          `db:"receipt_number"`
	CustomerID    *uuid.UUID      `db:"customer_id"`
	Items         []saleLineRow   `db:"items"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	Date          time.Time       `db:"date"`
	entity.Versioned
	entity.Audit
}

func toSaleRow(s *sale.Sale) *saleRow {
	items := make([]saleLineRow, 0, len(s.Items))
	for _, l := range s.Items {
		items = append(items, saleLineRow{
			ProductID: l.ProductID.Raw(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return &saleRow{
		ID:            s.ID.Raw(),
		ReceiptNumber: s.ReceiptNumber,
		CustomerID:    postgres.RefPtr(s.CustomerID),
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		Status:        string(s.Status),
		Date:          s.Date,
		Versioned:     s.Versioned,
		Audit:         s.Audit,
	}
}

func (r *saleRow) toDomain() *sale.Sale {
	items := make([]sale.Line, 0, len(r.Items))
	for _, l := range r.Items {
		items = append(items, sale.Line{
			ProductID: id.From[product.Product](l.ProductID),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return &sale.Sale{
		ID:            id.From[sale.Sale](r.ID),
		ReceiptNumber: r.ReceiptNumber,
		CustomerID:    postgres.RefOf[customer.Customer](r.CustomerID),
		Items:         items,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		Status:        sale.Status(r.Status),
		Date:          r.Date.UTC(),
		Versioned:     r.Versioned,
		Audit:         r.Audit,
	}
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	base *postgres.BaseRepo[saleRow]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		base: postgres.NewBaseRepo[saleRow](txm, postgres.TableConfig{
			Table:   saleTable,
			Entity:  "Sale",
			Search:  []string{"receipt_number"},
			OrderBy: []string{"date DESC", "id DESC"},
			Unique: map[string]postgres.UniqueKey{
				"uq_sales_receipt_number": {Column: "receipt_number", Field: "receiptNumber"},
			},
		}),
	}
}

func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	return r.base.Insert(ctx, toSaleRow(s))
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID sale.ID) (*sale.Sale, error) {
	row, err := r.base.Get(ctx, saleID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetForUpdate locks the sale row; VoidSale relies on it to serialize voids.
func (r *SaleRepo) GetForUpdate(ctx context.Context, saleID sale.ID) (*sale.Sale, error) {
	row, err := r.base.Get(ctx, saleID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *SaleRepo) SetStatus(ctx context.Context, saleID sale.ID, status sale.Status) error {
	return r.base.SetColumns(ctx, saleID.Raw(), map[string]any{"status": string(status)})
}

func (r *SaleRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*sale.Sale]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*saleRow).toDomain), nil
}

func (r *SaleRepo) ListByStatus(ctx context.Context, status sale.Status) ([]*sale.Sale, error) {
	rows, err := r.base.SelectWhere(ctx, squirrel.Eq{"status": string(status)})
	if err != nil {
		return nil, err
	}
	return postgres.MapRows(rows, (*saleRow).toDomain), nil
}
