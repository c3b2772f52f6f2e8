package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain"
	"essenceflow/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic CRUD handlers over a domain.CatalogService.
type CatalogHandler[T domain.Entity[K], K any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service *domain.CatalogService[T, K]

	mapCreateDTO func(req *CreateDTO) (T, error)
	applyUpdate  func(req *UpdateDTO, existing T) error
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.Entity[K], K any, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T, K]
	MapCreateDTO func(req *CreateDTO) (T, error)
	ApplyUpdate  func(req *UpdateDTO, existing T) error
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.Entity[K], K any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, K, CreateDTO, UpdateDTO],
) *CatalogHandler[T, K, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, K, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		applyUpdate:  cfg.ApplyUpdate,
	}
}

// List handles GET /{entity}?search=&limit=&offset=
func (h *CatalogHandler[T, K, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	q, ok := listFilter(h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /{entity}/:id
func (h *CatalogHandler[T, K, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := pathID[K](h.BaseHandler, c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Create handles POST /{entity}
func (h *CatalogHandler[T, K, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.mapCreateDTO(&req)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entity)
}

// Update handles PATCH /{entity}/:id. Absent fields keep their stored value.
func (h *CatalogHandler[T, K, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	entityID, ok := pathID[K](h.BaseHandler, c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), entityID, func(existing T) error {
		return h.applyUpdate(&req, existing)
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id
func (h *CatalogHandler[T, K, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := pathID[K](h.BaseHandler, c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
