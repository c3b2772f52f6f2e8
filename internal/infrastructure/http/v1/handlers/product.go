package handlers

import (
	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/production"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves formulation CRUD and batch production.
type ProductHandler struct {
	*CatalogHandler[*product.Product, product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	production *production.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, prod *production.Service) *ProductHandler {
	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[
			*product.Product, product.Product,
			dto.CreateProductRequest,
			dto.UpdateProductRequest,
		]{
			Service:      service.CatalogService,
			MapCreateDTO: (*dto.CreateProductRequest).ToEntity,
			ApplyUpdate:  (*dto.UpdateProductRequest).ApplyTo,
		}),
		production: prod,
	}
}

// Produce handles POST /products/:id/produce
func (h *ProductHandler) Produce(c *gin.Context) {
	productID, ok := pathID[product.Product](h.BaseHandler, c)
	if !ok {
		return
	}

	var req dto.ProduceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.production.ProduceBatch(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
