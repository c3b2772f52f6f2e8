package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// DocumentReader is the read side shared by the sale, purchase and wastage services.
type DocumentReader[T any, K any] interface {
	GetByID(ctx context.Context, docID id.Of[K]) (T, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// DocumentHandler provides the read handlers of a stock document.
// Writes go through the owning engine and live on the concrete handlers.
type DocumentHandler[T any, K any] struct {
	*BaseHandler
	reader DocumentReader[T, K]
}

// NewDocumentHandler creates a document handler over reader.
func NewDocumentHandler[T any, K any](base *BaseHandler, reader DocumentReader[T, K]) *DocumentHandler[T, K] {
	return &DocumentHandler[T, K]{BaseHandler: base, reader: reader}
}

// List handles GET /{document}, newest first.
func (h *DocumentHandler[T, K]) List(c *gin.Context) {
	q, ok := listFilter(h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.reader.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /{document}/:id
func (h *DocumentHandler[T, K]) Get(c *gin.Context) {
	docID, ok := pathID[K](h.BaseHandler, c)
	if !ok {
		return
	}

	doc, err := h.reader.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}
