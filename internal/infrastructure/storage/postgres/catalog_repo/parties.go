package catalog_repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const (
	vendorTable   = "vendors"
	customerTable = "customers"
)

type vendorRow struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Email    string    `db:"email"`
	Phone    string    `db:"phone"`
	LeadTime int       `db:"lead_time_days"`
	entity.Versioned
	entity.Audit
}

func (r *vendorRow) toDomain() *vendor.Vendor {
	return &vendor.Vendor{
		ID:        id.From[vendor.Vendor](r.ID),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		LeadTime:  r.LeadTime,
		Versioned: r.Versioned,
		Audit:     r.Audit,
	}
}

func toVendorRow(v *vendor.Vendor) *vendorRow {
	return &vendorRow{
		ID:        v.ID.Raw(),
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		LeadTime:  v.LeadTime,
		Versioned: v.Versioned,
		Audit:     v.Audit,
	}
}

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	base *postgres.BaseRepo[vendorRow]
}

var _ vendor.Repository = (*VendorRepo)(nil)

// NewVendorRepo creates a new vendor repository.
func NewVendorRepo(txm *postgres.TxManager) *VendorRepo {
	return &VendorRepo{
		base: postgres.NewBaseRepo[vendorRow](txm, postgres.TableConfig{
			Table:   vendorTable,
			Entity:  "Vendor",
			Search:  []string{"name", "email", "phone"},
			OrderBy: []string{"name ASC", "id ASC"},
		}),
	}
}

func (r *VendorRepo) Create(ctx context.Context, v *vendor.Vendor) error {
	return r.base.Insert(ctx, toVendorRow(v))
}

func (r *VendorRepo) GetByID(ctx context.Context, vendorID vendor.ID) (*vendor.Vendor, error) {
	row, err := r.base.Get(ctx, vendorID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *VendorRepo) Update(ctx context.Context, v *vendor.Vendor) error {
	if err := r.base.Update(ctx, v.ID.Raw(), v.Version, toVendorRow(v)); err != nil {
		return err
	}
	v.SetVersion(v.Version + 1)
	return nil
}

func (r *VendorRepo) Delete(ctx context.Context, vendorID vendor.ID) error {
	return r.base.Delete(ctx, vendorID.Raw())
}

func (r *VendorRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*vendor.Vendor], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*vendor.Vendor]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*vendorRow).toDomain), nil
}

type customerRow struct {
	ID         uuid.UUID       `db:"id"`
	Name       string          `db:"name"`
	Email      string          `db:"email"`
	Phone      string          `db:"phone"`
	TotalSpent decimal.Decimal `db:"total_spent"`
	entity.Versioned
	entity.Audit
}

func (r *customerRow) toDomain() *customer.Customer {
	return &customer.Customer{
		ID:         id.From[customer.Customer](r.ID),
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		TotalSpent: r.TotalSpent,
		Versioned:  r.Versioned,
		Audit:      r.Audit,
	}
}

func toCustomerRow(c *customer.Customer) *customerRow {
	return &customerRow{
		ID:         c.ID.Raw(),
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		TotalSpent: c.TotalSpent,
		Versioned:  c.Versioned,
		Audit:      c.Audit,
	}
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	base *postgres.BaseRepo[customerRow]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		base: postgres.NewBaseRepo[customerRow](txm, postgres.TableConfig{
			Table:   customerTable,
			Entity:  "Customer",
			Search:  []string{"name", "email", "phone"},
			OrderBy: []string{"name ASC", "id ASC"},
		}),
	}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.base.Insert(ctx, toCustomerRow(c))
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID customer.ID) (*customer.Customer, error) {
	row, err := r.base.Get(ctx, customerID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetForUpdate locks the customer row until the transaction ends.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID customer.ID) (*customer.Customer, error) {
	row, err := r.base.Get(ctx, customerID.Raw(), true)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	if err := r.base.Update(ctx, c.ID.Raw(), c.Version, toCustomerRow(c)); err != nil {
		return err
	}
	c.SetVersion(c.Version + 1)
	return nil
}

// SetTotalSpent overwrites the running total.
func (r *CustomerRepo) SetTotalSpent(ctx context.Context, customerID customer.ID, total types.Money) error {
	return r.base.SetColumns(ctx, customerID.Raw(), map[string]any{"total_spent": total})
}

func (r *CustomerRepo) Delete(ctx context.Context, customerID customer.ID) error {
	return r.base.Delete(ctx, customerID.Raw())
}

func (r *CustomerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*customer.Customer]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*customerRow).toDomain), nil
}
