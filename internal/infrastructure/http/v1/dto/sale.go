package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/documents/sale"
)

// SaleLineDTO is one sold product.
type SaleLineDTO struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"gte=0"`
	Total     decimal.Decimal `json:"total" binding:"gte=0"`
}

// CreateSaleRequest for recording a sale. customerId is omitted for walk-in
// customers; receiptNumber is generated when empty.
type CreateSaleRequest struct {
	CustomerID    *string         `json:"customerId" binding:"omitempty,uuid"`
	Items         []SaleLineDTO   `json:"items" binding:"required,min=1,dive"`
	Subtotal      decimal.Decimal `json:"subtotal" binding:"gte=0"`
	Discount      decimal.Decimal `json:"discount" binding:"gte=0"`
	Total         decimal.Decimal `json:"total" binding:"gte=0"`
	ReceiptNumber string          `json:"receiptNumber" binding:"max=50"`
	Date          *time.Time      `json:"date"`
}

// ToDomain converts to the sale engine request.
func (r *CreateSaleRequest) ToDomain() (sale.CreateRequest, error) {
	customerID, err := ParseOptionalRef[customer.Customer]("customerId", r.CustomerID)
	if err != nil {
		return sale.CreateRequest{}, err
	}

	lines := make([]sale.Line, 0, len(r.Items))
	for i, l := range r.Items {
		productID, err := ParseRef[product.Product](fmt.Sprintf("items[%d].productId", i), l.ProductID)
		if err != nil {
			return sale.CreateRequest{}, err
		}
		lines = append(lines, sale.Line{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}

	return sale.CreateRequest{
		CustomerID:    customerID,
		Items:         lines,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		ReceiptNumber: r.ReceiptNumber,
		Date:          utcPtr(r.Date),
	}, nil
}
