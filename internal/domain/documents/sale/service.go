package sale

import (
	"context"
	"fmt"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/core/numerator"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/core/types"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/pkg/logger"
)

// CreateRequest carries the fields of a new sale.
type CreateRequest struct {
	CustomerID    *customer.ID
	Items         []Line
	Subtotal      types.Money
	Discount      types.Money
	Total         types.Money
	ReceiptNumber string // generated when empty
	Date          *time.Time
}

// Service implements the sale side of the stock engine.
type Service struct {
	repo      Repository
	products  product.Repository
	customers customer.Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	products product.Repository,
	customers customer.Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		customers: customers,
		txManager: txManager,
		numerator: gen,
	}
}

// Create records a sale: every line's product must have enough stock, stock
// is decremented, the sale is stored COMPLETED and the customer's running
// total grows by the sale total. All or nothing.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Sale, error) {
	doc := NewSale(req.Items)
	doc.CustomerID = req.CustomerID
	doc.Subtotal = req.Subtotal
	doc.Discount = req.Discount
	doc.Total = req.Total
	doc.ReceiptNumber = req.ReceiptNumber
	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock in id order, then check lines in receipt order.
		ids := lineProductIDs(doc.Items)
		locked := make(map[product.ID]*product.Product, len(ids))
		for _, productID := range ids {
			p, err := s.products.GetForUpdate(ctx, productID)
			if err != nil {
				if apperror.IsNotFound(err) {
					continue
				}
				return fmt.Errorf("lock product: %w", err)
			}
			locked[productID] = p
		}

		remaining := make(map[product.ID]types.Quantity, len(ids))
		for _, line := range doc.Items {
			p, ok := locked[line.ProductID]
			if !ok {
				return apperror.NewValidation(fmt.Sprintf("Product %s not found", line.ProductID)).
					WithDetail("productId", line.ProductID.String())
			}
			available, seen := remaining[p.ID]
			if !seen {
				available = p.CurrentStock
			}
			if available.LessThan(line.Quantity) {
				return apperror.NewInsufficientStock(fmt.Sprintf(
					"Insufficient stock for %s. Available: %s", p.Name, available,
				)).
					WithDetail("productId", p.ID.String()).
					WithDetail("requested", line.Quantity.String()).
					WithDetail("available", available.String())
			}
			remaining[p.ID] = available.Sub(line.Quantity)
		}
		for _, productID := range ids {
			if err := s.products.SetStock(ctx, productID, remaining[productID]); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		if doc.ReceiptNumber == "" {
			number, err := numerator.Next(ctx, s.numerator, numerator.PrefixSale, doc.Date)
			if err != nil {
				return fmt.Errorf("generate receipt number: %w", err)
			}
			doc.ReceiptNumber = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		if doc.CustomerID != nil {
			if err := customer.AddSpent(ctx, s.customers, *doc.CustomerID, doc.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", doc.ID.String(),
		"receipt", doc.ReceiptNumber,
		"lines", len(doc.Items),
		"total", doc.Total.String())

	return doc, nil
}

// Void reverses a COMPLETED sale: stock is restored, the customer's running
// total shrinks by the sale total and the status becomes VOIDED for good.
func (s *Service) Void(ctx context.Context, saleID ID) (*Sale, error) {
	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, saleID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("Sale", saleID)
			}
			return fmt.Errorf("lock sale: %w", err)
		}
		if doc.IsVoided() {
			return apperror.NewBusinessRule("Sale already voided").WithDetail("saleId", saleID.String())
		}

		restock := make(map[product.ID]types.Quantity, len(doc.Items))
		for _, line := range doc.Items {
			restock[line.ProductID] = restock[line.ProductID].Add(line.Quantity)
		}
		for _, productID := range lineProductIDs(doc.Items) {
			if _, _, err := product.AdjustStock(ctx, s.products, productID, restock[productID]); err != nil {
				return err
			}
		}

		if doc.CustomerID != nil {
			if err := customer.AddSpent(ctx, s.customers, *doc.CustomerID, doc.Total.Neg()); err != nil {
				return err
			}
		}

		if err := s.repo.SetStatus(ctx, saleID, StatusVoided); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		doc.Status = StatusVoided
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale voided", "sale_id", saleID.String(), "receipt", doc.ReceiptNumber)
	return doc, nil
}

// GetByID retrieves a sale.
func (s *Service) GetByID(ctx context.Context, saleID ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Sale", saleID)
		}
		return nil, err
	}
	return doc, nil
}

// List returns sales, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

func lineProductIDs(lines []Line) []product.ID {
	ids := make([]product.ID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return id.SortedUnique(ids)
}
