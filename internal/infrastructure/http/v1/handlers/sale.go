package handlers

import (
	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the sales engine.
type SaleHandler struct {
	*DocumentHandler[*sale.Sale, sale.Sale]
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{
		DocumentHandler: NewDocumentHandler[*sale.Sale, sale.Sale](base, service),
		service:         service,
	}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Void handles POST /sales/:id/void and DELETE /sales/:id.
func (h *SaleHandler) Void(c *gin.Context) {
	saleID, ok := pathID[sale.Sale](h.BaseHandler, c)
	if !ok {
		return
	}

	if _, err := h.service.Void(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Sale voided successfully")
}
