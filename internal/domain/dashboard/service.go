package dashboard

import (
	"context"
	"fmt"
	"time"

	"essenceflow/internal/core/tx"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/sale"
)

// Service loads dashboard inputs and runs Compute.
type Service struct {
	sales     sale.Repository
	expenses  expense.Repository
	items     inventory.Repository
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new dashboard service.
func NewService(sales sale.Repository, expenses expense.Repository, items inventory.Repository, txManager tx.Manager) *Service {
	return &Service{
		sales:     sales,
		expenses:  expenses,
		items:     items,
		txManager: txManager,
		now:       time.Now,
	}
}

// Get computes the dashboard from a consistent read of all three inputs.
func (s *Service) Get(ctx context.Context, cfg Config) (Stats, error) {
	var in Input
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		if in.Sales, err = s.sales.ListByStatus(ctx, sale.StatusCompleted); err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		if in.Expenses, err = s.expenses.ListAll(ctx); err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		if in.Inventory, err = s.items.ListAll(ctx); err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return Compute(in, cfg, s.now()), nil
}
