package expense

import (
	"essenceflow/internal/core/tx"
	"essenceflow/internal/domain"
)

// Service provides business logic for expenses.
type Service struct {
	*domain.CatalogService[*Expense, Expense]
}

// NewService creates a new expense service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Expense, Expense]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "Expense",
		}),
	}
}
