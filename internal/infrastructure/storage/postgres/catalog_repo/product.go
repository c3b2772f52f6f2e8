package catalog_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// componentRow is one bill-of-materials line as stored in the JSONB columns.
type componentRow struct {
	InventoryItemID uuid.UUID       `json:"inventoryItemId"`
	Amount          decimal.Decimal `json:"amount"`
}

type productRow struct {
	ID           uuid.UUID       `db:"id"`
	SKU          string          `db:"sku"`
	Name         string          `db:"name"`
	Ingredients  []componentRow  `db:"ingredients"`
	Packaging    []componentRow  `db:"packaging"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	CurrentStock decimal.Decimal `db:"current_stock"`
	entity.Versioned
	entity.Audit
}

func toComponentRows(lines []product.Component) []componentRow {
	out := make([]componentRow, 0, len(lines))
	for _, c := range lines {
		out = append(out, componentRow{InventoryItemID: c.InventoryItemID.Raw(), Amount: c.AmountPerUnit})
	}
	return out
}

func toComponents(rows []componentRow) []product.Component {
	out := make([]product.Component, 0, len(rows))
	for _, c := range rows {
		out = append(out, product.Component{
			InventoryItemID: id.From[inventory.Item](c.InventoryItemID),
			AmountPerUnit:   c.Amount,
		})
	}
	return out
}

func toProductRow(p *product.Product) *productRow {
	return &productRow{
		ID:           p.ID.Raw(),
		SKU:          p.SKU,
		Name:         p.Name,
		Ingredients:  toComponentRows(p.Ingredients),
		Packaging:    toComponentRows(p.Packaging),
		SellingPrice: p.SellingPrice,
		TotalCost:    p.TotalCost,
		CurrentStock: p.CurrentStock,
		Versioned:    p.Versioned,
		Audit:        p.Audit,
	}
}

func (r *productRow) toDomain() *product.Product {
	return &product.Product{
		ID:           id.From[product.Product](r.ID),
		SKU:          r.SKU,
		Name:         r.Name,
		Ingredients:  toComponents(r.Ingredients),
		Packaging:    toComponents(r.Packaging),
		SellingPrice: r.SellingPrice,
		TotalCost:    r.TotalCost,
		CurrentStock: r.CurrentStock,
		Versioned:    r.Versioned,
		Audit:        r.Audit,
	}
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	base *postgres.BaseRepo[productRow]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		base: postgres.NewBaseRepo[productRow](txm, postgres.TableConfig{
			Table:   productTable,
			Entity:  "Product",
			Search:  []string{"name", "sku"},
			OrderBy: []string{"name ASC", "id ASC"},
			Unique: map[string]postgres.UniqueKey{
				"uq_products_sku": {Column: "sku", Field: "sku"},
			},
		}),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.base.Insert(ctx, toProductRow(p))
}

func (r *ProductRepo) GetByID(ctx context.Context, productID product.ID) (*product.Product, error) {
	row, err := r.base.Get(ctx, productID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetForUpdate locks the product row until the transaction ends.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID product.ID) (*product.Product, error) {
	row, err := r.base.Get(ctx, productID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	if err := r.base.Update(ctx, p.ID.Raw(), p.Version, toProductRow(p)); err != nil {
		return err
	}
	p.SetVersion(p.Version + 1)
	return nil
}

// SetStock overwrites currentStock.
func (r *ProductRepo) SetStock(ctx context.Context, productID product.ID, stock types.Quantity) error {
	return r.base.SetColumns(ctx, productID.Raw(), map[string]any{"current_stock": stock})
}

func (r *ProductRepo) Delete(ctx context.Context, productID product.ID) error {
	return r.base.Delete(ctx, productID.Raw())
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*product.Product]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*productRow).toDomain), nil
}

// FindUsingItem returns products whose ingredients or packaging contain itemID.
// Served by the jsonb_path_ops GIN indexes on both columns.
func (r *ProductRepo) FindUsingItem(ctx context.Context, itemID inventory.ItemID) ([]*product.Product, error) {
	cond, err := usesItemCondition(itemID)
	if err != nil {
		return nil, err
	}
	rows, err := r.base.SelectWhere(ctx, cond)
	if err != nil {
		return nil, err
	}
	return postgres.MapRows(rows, (*productRow).toDomain), nil
}

func usesItemCondition(itemID inventory.ItemID) (squirrel.Sqlizer, error) {
	contains, err := json.Marshal([]map[string]string{{"inventoryItemId": itemID.String()}})
	if err != nil {
		return nil, fmt.Errorf("encode containment filter: %w", err)
	}
	return squirrel.Or{
		squirrel.Expr("ingredients @> ?::jsonb", string(contains)),
		squirrel.Expr("packaging @> ?::jsonb", string(contains)),
	}, nil
}
