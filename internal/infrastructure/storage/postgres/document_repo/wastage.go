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
	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const wastageTable = "wastage"

type wastageRow struct {
	ID              uuid.UUID       `db:"id"`
	InventoryItemID uuid.UUID       `db:"inventory_item_id"`
	Amount          decimal.Decimal `db:"amount"`
	Reason          string          `db:"reason"`
	Cost            decimal.Decimal `db:"cost"`
	Date            time.Time       `db:"date"`
	entity.Versioned
	entity.Audit
}

func toWastageRow(w *wastage.Wastage) *wastageRow {
	return &wastageRow{
		ID:              w.ID.Raw(),
		InventoryItemID: w.InventoryItemID.Raw(),
		Amount:          w.Amount,
		Reason:          w.Reason,
		Cost:            w.Cost,
		Date:            w.Date,
		Versioned:       w.Versioned,
		Audit:           w.Audit,
	}
}

func (r *wastageRow) toDomain() *wastage.Wastage {
	return &wastage.Wastage{
		ID:              id.From[wastage.Wastage](r.ID),
		InventoryItemID: id.From[inventory.Item](r.InventoryItemID),
		Amount:          r.Amount,
		Reason:          r.Reason,
		Cost:            r.Cost,
		Date:            r.Date.UTC(),
		Versioned:       r.Versioned,
		Audit:           r.Audit,
	}
}

// WastageRepo implements wastage.Repository.
type WastageRepo struct {
	base *postgres.BaseRepo[wastageRow]
}

var _ wastage.Repository = (*WastageRepo)(nil)

// NewWastageRepo creates a new wastage repository.
func NewWastageRepo(txm *postgres.TxManager) *WastageRepo {
	return &WastageRepo{
		base: postgres.NewBaseRepo[wastageRow](txm, postgres.TableConfig{
			Table:   wastageTable,
			Entity:  "Wastage",
			Search:  []string{"reason"},
			OrderBy: []string{"date DESC", "id DESC"},
		}),
	}
}

func (r *WastageRepo) Create(ctx context.Context, w *wastage.Wastage) error {
	return r.base.Insert(ctx, toWastageRow(w))
}

func (r *WastageRepo) GetByID(ctx context.Context, wastageID wastage.ID) (*wastage.Wastage, error) {
	row, err := r.base.Get(ctx, wastageID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *WastageRepo) GetForUpdate(ctx context.Context, wastageID wastage.ID) (*wastage.Wastage, error) {
	row, err := r.base.Get(ctx, wastageID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *WastageRepo) Update(ctx context.Context, w *wastage.Wastage) error {
	if err := r.base.Update(ctx, w.ID.Raw(), w.Version, toWastageRow(w)); err != nil {
		return err
	}
	w.SetVersion(w.Version + 1)
	return nil
}

func (r *WastageRepo) Delete(ctx context.Context, wastageID wastage.ID) error {
	return r.base.Delete(ctx, wastageID.Raw())
}

func (r *WastageRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*wastage.Wastage], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*wastage.Wastage]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*wastageRow).toDomain), nil
}
