// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/category"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/reports"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/export"
	"stockroom/internal/infrastructure/http/v1/handlers"
	"stockroom/internal/infrastructure/http/v1/middleware"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService     *auth.Service
	ProductService  *product.Service
	CategoryService *category.Service
	SupplierService *supplier.Service
	StockService    *stock.Service
	ReportService   *reports.Service

	Ledger      stock.LedgerRepository
	Reconciler  *stock.Reconciler
	Snapshotter *export.Snapshotter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	adminGuard := middleware.RequireAdmin()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		categoryHandler := handlers.NewCategoryHandler(baseHandler, cfg.CategoryService)
		categoryHandler.RegisterRoutes(protected.Group("/categories"))

		supplierHandler := handlers.NewSupplierHandler(baseHandler, cfg.SupplierService)
		supplierHandler.RegisterRoutes(protected.Group("/suppliers"))

		stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService, cfg.Ledger, cfg.Reconciler)
		stockHandler.RegisterRoutes(protected.Group("/stock"), adminGuard)

		reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.ReportService)
		reportsHandler.RegisterRoutes(protected.Group("/reports"))

		exportHandler := handlers.NewExportHandler(baseHandler, cfg.ProductService, cfg.Ledger, cfg.ReportService, cfg.Snapshotter)
		exportHandler.RegisterRoutes(protected.Group("/export"), adminGuard)

		userHandler := handlers.NewUserHandler(baseHandler, cfg.AuthService)
		users := protected.Group("/users")
		users.Use(adminGuard)
		userHandler.RegisterRoutes(users)
	}

	return router
}
