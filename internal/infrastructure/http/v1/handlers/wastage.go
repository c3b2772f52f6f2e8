package handlers

import (
	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// WastageHandler serves the wastage engine.
type WastageHandler struct {
	*DocumentHandler[*wastage.Wastage, wastage.Wastage]
	service *wastage.Service
}

// NewWastageHandler creates a new wastage handler.
func NewWastageHandler(base *BaseHandler, service *wastage.Service) *WastageHandler {
	return &WastageHandler{
		DocumentHandler: NewDocumentHandler[*wastage.Wastage, wastage.Wastage](base, service),
		service:         service,
	}
}

// Log handles POST /wastage
func (h *WastageHandler) Log(c *gin.Context) {
	var req dto.LogWastageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Log(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Update handles PATCH /wastage/:id
func (h *WastageHandler) Update(c *gin.Context) {
	wastageID, ok := pathID[wastage.Wastage](h.BaseHandler, c)
	if !ok {
		return
	}

	var req dto.UpdateWastageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(c.Request.Context(), wastageID, req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /wastage/:id; the written-off amount returns to stock.
func (h *WastageHandler) Delete(c *gin.Context) {
	wastageID, ok := pathID[wastage.Wastage](h.BaseHandler, c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), wastageID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Wastage record removed")
}
