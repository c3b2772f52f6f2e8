// Package storage opens the configured storage driver.
package storage

import (
	"context"
	"fmt"

	"essenceflow/internal/core/numerator"
	"essenceflow/internal/core/tx"
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
	"essenceflow/internal/infrastructure/config"
	numeratorsvc "essenceflow/internal/infrastructure/numerator"
	"essenceflow/internal/infrastructure/storage/memory"
	"essenceflow/internal/infrastructure/storage/postgres"
	"essenceflow/internal/infrastructure/storage/postgres/auth_repo"
	"essenceflow/internal/infrastructure/storage/postgres/catalog_repo"
	"essenceflow/internal/infrastructure/storage/postgres/document_repo"
	"essenceflow/internal/infrastructure/storage/postgres/settings_repo"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Inventory inventory.Repository
	Products  product.Repository
	Vendors   vendor.Repository
	Customers customer.Repository
	Sales     sale.Repository
	Purchases purchase.Repository
	Wastage   wastage.Repository
	Expenses  expense.Repository
	Settings  settings.Repository
	Users     auth.UserRepository

	TxManager tx.Manager
	Numerator numerator.Generator

	// DB is nil for the memory driver.
	DB   Pinger
	Pool *postgres.Pool

	closeFn func()
}

// Close releases the connection pool, if any.
func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Open builds the backend selected by database.driver.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
	}
}

// NewMemory returns a backend over a fresh in-memory store.
func NewMemory() *Backend {
	store := memory.New()
	return &Backend{
		Inventory: store.Inventory(),
		Products:  store.Products(),
		Vendors:   store.Vendors(),
		Customers: store.Customers(),
		Sales:     store.Sales(),
		Purchases: store.Purchases(),
		Wastage:   store.Wastage(),
		Expenses:  store.Expenses(),
		Settings:  store.Settings(),
		Users:     store.Users(),
		TxManager: store,
		Numerator: store.Numerator(),
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, cfg.PoolConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	return &Backend{
		Inventory: catalog_repo.NewInventoryRepo(txm),
		Products:  catalog_repo.NewProductRepo(txm),
		Vendors:   catalog_repo.NewVendorRepo(txm),
		Customers: catalog_repo.NewCustomerRepo(txm),
		Sales:     document_repo.NewSaleRepo(txm),
		Purchases: document_repo.NewPurchaseRepo(txm),
		Wastage:   document_repo.NewWastageRepo(txm),
		Expenses:  document_repo.NewExpenseRepo(txm),
		Settings:  settings_repo.NewSettingsRepo(txm),
		Users:     auth_repo.NewUserRepo(txm),
		TxManager: txm,
		Numerator: numeratorsvc.NewWithTxManager(txm).WithDefaults(cfg.NumeratorOptions()),
		DB:        pool,
		Pool:      pool,
		closeFn:   pool.Close,
	}, nil
}
