// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const inventoryTable = "inventory_items"

type itemRow struct {
	ID           uuid.UUID       `db:"id"`
	Name         string          `db:"name"`
	Category     string          `db:"category"`
	Quantity     decimal.Decimal `db:"quantity"`
	CostPerUnit  decimal.Decimal `db:"cost_per_unit"`
	MinThreshold decimal.Decimal `db:"min_threshold"`
	BatchNumber  string          `db:"batch_number"`
	ExpiryDate   *time.Time      `db:"expiry_date"`
	VendorID     *uuid.UUID      `db:"vendor_id"`
	entity.Versioned
	entity.Audit
}

func toItemRow(i *inventory.Item) *itemRow {
	return &itemRow{
		ID:           i.ID.Raw(),
		Name:         i.Name,
		Category:     i.Category,
		Quantity:     i.Quantity,
		CostPerUnit:  i.CostPerUnit,
		MinThreshold: i.MinThreshold,
		BatchNumber:  i.BatchNumber,
		ExpiryDate:   i.ExpiryDate,
		VendorID:     postgres.RefPtr(i.VendorID),
		Versioned:    i.Versioned,
		Audit:        i.Audit,
	}
}

func (r *itemRow) toDomain() *inventory.Item {
	return &inventory.Item{
		ID:           id.From[inventory.Item](r.ID),
		Name:         r.Name,
		Category:     r.Category,
		Quantity:     r.Quantity,
		CostPerUnit:  r.CostPerUnit,
		MinThreshold: r.MinThreshold,
		BatchNumber:  r.BatchNumber,
		ExpiryDate:   r.ExpiryDate,
		VendorID:     postgres.RefOf[vendor.Vendor](r.VendorID),
		Versioned:    r.Versioned,
		Audit:        r.Audit,
	}
}

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	base *postgres.BaseRepo[itemRow]
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates a new inventory item repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		base: postgres.NewBaseRepo[itemRow](txm, postgres.TableConfig{
			Table:   inventoryTable,
			Entity:  "Inventory item",
			Search:  []string{"name", "category", "batch_number"},
			OrderBy: []string{"name ASC", "id ASC"},
		}),
	}
}

func (r *InventoryRepo) Create(ctx context.Context, item *inventory.Item) error {
	return r.base.Insert(ctx, toItemRow(item))
}

func (r *InventoryRepo) GetByID(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	row, err := r.base.Get(ctx, itemID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetForUpdate locks the item row until the transaction ends.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, itemID inventory.ItemID) (*inventory.Item, error) {
	row, err := r.base.Get(ctx, itemID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *InventoryRepo) Update(ctx context.Context, item *inventory.Item) error {
	if err := r.base.Update(ctx, item.ID.Raw(), item.Version, toItemRow(item)); err != nil {
		return err
	}
	item.SetVersion(item.Version + 1)
	return nil
}

// SetQuantity overwrites the stock level.
func (r *InventoryRepo) SetQuantity(ctx context.Context, itemID inventory.ItemID, qty types.Quantity) error {
	return r.base.SetColumns(ctx, itemID.Raw(), map[string]any{"quantity": qty})
}

func (r *InventoryRepo) Delete(ctx context.Context, itemID inventory.ItemID) error {
	return r.base.Delete(ctx, itemID.Raw())
}

func (r *InventoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*inventory.Item], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*inventory.Item]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*itemRow).toDomain), nil
}

// ListAll returns every item ordered by name.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]*inventory.Item, error) {
	rows, err := r.base.SelectWhere(ctx, nil)
	if err != nil {
		return nil, err
	}
	return postgres.MapRows(rows, (*itemRow).toDomain), nil
}
