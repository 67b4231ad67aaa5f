// Package main is the entry point for the stockroom API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/category"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/reports"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/export"
	v1 "stockroom/internal/infrastructure/http/v1"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/auth_repo"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/internal/infrastructure/storage/postgres/report_repo"
	"stockroom/internal/infrastructure/storage/postgres/stock_repo"
	"stockroom/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockroom server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	productStockRepo := stock_repo.NewProductStockRepo(txManager)
	ledgerRepo := stock_repo.NewLedgerRepo(txManager)
	receiptRepo := stock_repo.NewReceiptRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Services ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	authService := auth.NewService(userRepo, jwtService)
	productService := product.NewService(productRepo)
	categoryService := category.NewService(categoryRepo)
	supplierService := supplier.NewService(supplierRepo)
	stockService := stock.NewService(productStockRepo, ledgerRepo, receiptRepo, txManager)
	reconciler := stock.NewReconciler(productStockRepo, ledgerRepo)
	reportService := reports.NewService(reportRepo, ledgerRepo)
	snapshotter := export.NewSnapshotter(productRepo, categoryRepo, supplierRepo, ledgerRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		ProductService:  productService,
		CategoryService: categoryService,
		SupplierService: supplierService,
		StockService:    stockService,
		ReportService:   reportService,
		Ledger:          ledgerRepo,
		Reconciler:      reconciler,
		Snapshotter:     snapshotter,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
