package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard CRUD routes for a catalog.
// Updates are partial, hence PATCH.
//
// Usage:
//
//	service := vendor.NewService(repos.Vendors, cfg.TxManager)
//	RegisterCatalogRoutes(rg.Group("/vendors"), handlers.NewVendorHandler(base, service))
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PATCH("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
