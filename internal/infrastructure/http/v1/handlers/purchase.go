package handlers

import (
	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves the purchase engine.
type PurchaseHandler struct {
	*DocumentHandler[*purchase.Purchase, purchase.Purchase]
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{
		DocumentHandler: NewDocumentHandler[*purchase.Purchase, purchase.Purchase](base, service),
		service:         service,
	}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
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

// Update handles PATCH /purchases/:id
func (h *PurchaseHandler) Update(c *gin.Context) {
	purchaseID, ok := pathID[purchase.Purchase](h.BaseHandler, c)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Update(c.Request.Context(), purchaseID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /purchases/:id; received stock is taken back.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	purchaseID, ok := pathID[purchase.Purchase](h.BaseHandler, c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), purchaseID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Purchase removed")
}
