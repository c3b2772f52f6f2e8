package handlers

import (
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

type InventoryHTTPHandler = CatalogHandler[
	*inventory.Item, inventory.Item,
	dto.CreateInventoryItemRequest,
	dto.UpdateInventoryItemRequest,
]

// NewInventoryHandler wires the inventory item DTOs to the catalog handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*inventory.Item, inventory.Item,
		dto.CreateInventoryItemRequest,
		dto.UpdateInventoryItemRequest,
	]{
		Service:      service.CatalogService,
		MapCreateDTO: (*dto.CreateInventoryItemRequest).ToEntity,
		ApplyUpdate:  (*dto.UpdateInventoryItemRequest).ApplyTo,
	})
}

type VendorHTTPHandler = CatalogHandler[
	*vendor.Vendor, vendor.Vendor,
	dto.CreateVendorRequest,
	dto.UpdateVendorRequest,
]

func NewVendorHandler(base *BaseHandler, service *vendor.Service) *VendorHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*vendor.Vendor, vendor.Vendor,
		dto.CreateVendorRequest,
		dto.UpdateVendorRequest,
	]{
		Service:      service.CatalogService,
		MapCreateDTO: (*dto.CreateVendorRequest).ToEntity,
		ApplyUpdate:  (*dto.UpdateVendorRequest).ApplyTo,
	})
}

type CustomerHTTPHandler = CatalogHandler[
	*customer.Customer, customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*customer.Customer, customer.Customer,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	]{
		Service:      service.CatalogService,
		MapCreateDTO: (*dto.CreateCustomerRequest).ToEntity,
		ApplyUpdate:  (*dto.UpdateCustomerRequest).ApplyTo,
	})
}

type ExpenseHTTPHandler = CatalogHandler[
	*expense.Expense, expense.Expense,
	dto.CreateExpenseRequest,
	dto.UpdateExpenseRequest,
]

func NewExpenseHandler(base *BaseHandler, service *expense.Service) *ExpenseHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*expense.Expense, expense.Expense,
		dto.CreateExpenseRequest,
		dto.UpdateExpenseRequest,
	]{
		Service:      service.CatalogService,
		MapCreateDTO: (*dto.CreateExpenseRequest).ToEntity,
		ApplyUpdate:  (*dto.UpdateExpenseRequest).ApplyTo,
	})
}
