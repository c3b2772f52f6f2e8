// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"essenceflow/internal/core/numerator"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/dashboard"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/domain/production"
	"essenceflow/internal/domain/settings"
	"essenceflow/internal/infrastructure/http/v1/handlers"
	"essenceflow/internal/infrastructure/http/v1/middleware"
	"essenceflow/pkg/logger"
)

// Repositories is the storage backend the API runs on (postgres or memory).
type Repositories struct {
	Inventory inventory.Repository
	Products  product.Repository
	Vendors   vendor.Repository
	Customers customer.Repository
	Sales     sale.Repository
	Purchases purchase.Repository
	Wastage   wastage.Repository
	Expenses  expense.Repository
	Settings  settings.Repository
}

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	Repos     Repositories
	TxManager tx.Manager

	// Numerator generates receipt and purchase reference numbers
	Numerator numerator.Generator

	// DB is pinged by the readiness checks; nil for in-memory storage
	DB handlers.Pinger

	Dashboard dashboard.Config
	CORS      cors.Config
	Gzip      bool
}

// NewHandler returns the router wrapped in response compression when enabled.
func NewHandler(cfg RouterConfig) http.Handler {
	router := NewRouter(cfg)
	if !cfg.Gzip {
		return router
	}
	return gzhttp.GzipHandler(router)
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	middleware.SetupValidator()

	router := gin.New()

	// Order matters: ErrorHandler renders what Recovery registers.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if corsEnabled(cfg.CORS) {
		router.Use(cors.New(cfg.CORS))
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// CORSConfig builds the CORS policy; "*" allows every origin.
func CORSConfig(origins, methods, headers []string) cors.Config {
	c := cors.DefaultConfig()
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
		}
	}
	if !c.AllowAllOrigins {
		c.AllowOrigins = origins
	}
	if len(methods) > 0 {
		c.AllowMethods = methods
	}
	if len(headers) > 0 {
		c.AllowHeaders = headers
	}
	c.ExposeHeaders = []string{middleware.HeaderRequestID, middleware.HeaderTraceID}
	return c
}

func corsEnabled(c cors.Config) bool {
	return c.AllowAllOrigins || len(c.AllowOrigins) > 0 || c.AllowOriginFunc != nil
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)

	public := rg.Group("/auth")
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(public, protected)
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	repos := cfg.Repos

	// --- INVENTORY ---
	{
		service := inventory.NewService(repos.Inventory, cfg.TxManager, product.NewFormulationLookup(repos.Products))
		RegisterCatalogRoutes(rg.Group("/inventory"), handlers.NewInventoryHandler(base, service))
	}

	// --- PRODUCTS ---
	{
		service := product.NewService(repos.Products, repos.Inventory, cfg.TxManager)
		prod := production.NewService(repos.Products, repos.Inventory, cfg.TxManager)
		handler := handlers.NewProductHandler(base, service, prod)

		group := rg.Group("/products")
		RegisterCatalogRoutes(group, handler)
		group.POST("/:id/produce", handler.Produce)
	}

	// --- VENDORS ---
	{
		service := vendor.NewService(repos.Vendors, cfg.TxManager)
		RegisterCatalogRoutes(rg.Group("/vendors"), handlers.NewVendorHandler(base, service))
	}

	// --- CUSTOMERS ---
	{
		service := customer.NewService(repos.Customers, cfg.TxManager)
		RegisterCatalogRoutes(rg.Group("/customers"), handlers.NewCustomerHandler(base, service))
	}

	// --- EXPENSES ---
	{
		service := expense.NewService(repos.Expenses, cfg.TxManager)
		RegisterCatalogRoutes(rg.Group("/expenses"), handlers.NewExpenseHandler(base, service))
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	repos := cfg.Repos

	// --- SALES ---
	{
		service := sale.NewService(repos.Sales, repos.Products, repos.Customers, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewSaleHandler(base, service)

		group := rg.Group("/sales")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.POST("/:id/void", handler.Void)
		group.DELETE("/:id", handler.Void)
	}

	// --- PURCHASES ---
	{
		service := purchase.NewService(repos.Purchases, repos.Inventory, repos.Vendors, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewPurchaseHandler(base, service)

		group := rg.Group("/purchases")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.PATCH("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}

	// --- WASTAGE ---
	{
		service := wastage.NewService(repos.Wastage, repos.Inventory, cfg.TxManager)
		handler := handlers.NewWastageHandler(base, service)

		group := rg.Group("/wastage")
		group.GET("", handler.List)
		group.POST("", handler.Log)
		group.GET("/:id", handler.Get)
		group.PATCH("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}
}

func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	repos := cfg.Repos

	dashboardService := dashboard.NewService(repos.Sales, repos.Expenses, repos.Inventory, cfg.TxManager)
	rg.GET("/dashboard", handlers.NewDashboardHandler(base, dashboardService, cfg.Dashboard).Get)

	settingsHandler := handlers.NewSettingsHandler(base, settings.NewService(repos.Settings, cfg.TxManager))
	rg.GET("/settings", settingsHandler.Get)
	rg.PUT("/settings", middleware.RequireRole(string(auth.RoleAdmin), string(auth.RoleManager)), settingsHandler.Update)
}
