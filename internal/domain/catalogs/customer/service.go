package customer

import (
	"context"
	"fmt"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer, Customer]
}

// NewService creates a new Customer service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Customer, Customer]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "Customer",
		}),
	}
}

// AddSpent adds delta (negative on void) to the customer's running total.
// A missing customer is skipped: sales keep working for deleted customers.
// Must be called inside a transaction.
func AddSpent(ctx context.Context, repo Repository, customerID ID, delta types.Money) error {
	c, err := repo.GetForUpdate(ctx, customerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("lock customer: %w", err)
	}
	if err := repo.SetTotalSpent(ctx, customerID, c.TotalSpent.Add(delta)); err != nil {
		return fmt.Errorf("update customer total: %w", err)
	}
	return nil
}
