// Package main provides a CLI tool for bootstrapping the schema and
// seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/stock_repo"
	"stockroom/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema is up to date")

	adminUserID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminUserID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// schemaDDL creates every table the repositories read and write.
// Statements are idempotent so the tool can run on every deploy.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		contact    TEXT,
		phone      TEXT,
		email      TEXT,
		address    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id            UUID PRIMARY KEY,
		sku           TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		category_id   UUID NOT NULL REFERENCES categories(id),
		supplier_id   UUID REFERENCES suppliers(id),
		unit          TEXT NOT NULL DEFAULT 'pcs',
		cost_price    NUMERIC(14,2) NOT NULL DEFAULT 0,
		selling_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		stock         INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		reorder_level INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
	`CREATE TABLE IF NOT EXISTS stock_in (
		id            UUID PRIMARY KEY,
		product_id    UUID NOT NULL REFERENCES products(id),
		qty           INTEGER NOT NULL CHECK (qty > 0),
		cost_per_unit NUMERIC(14,2) NOT NULL,
		supplier_id   UUID REFERENCES suppliers(id),
		remarks       TEXT,
		created_by    UUID NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_out (
		id         UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		qty        INTEGER NOT NULL CHECK (qty > 0),
		customer   TEXT,
		remarks    TEXT,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_adjustments (
		id          UUID PRIMARY KEY,
		product_id  UUID NOT NULL REFERENCES products(id),
		counted_qty INTEGER NOT NULL CHECK (counted_qty >= 0),
		remarks     TEXT,
		created_by  UUID NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id            UUID PRIMARY KEY,
		product_id    UUID NOT NULL REFERENCES products(id),
		movement_type TEXT NOT NULL CHECK (movement_type IN ('IN', 'OUT', 'ADJUST')),
		qty           INTEGER NOT NULL CHECK (qty > 0),
		prev_stock    INTEGER NOT NULL,
		new_stock     INTEGER NOT NULL,
		ref_kind      TEXT NOT NULL,
		ref_id        UUID NOT NULL,
		actor_id      UUID NOT NULL REFERENCES users(id),
		remarks       TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_created ON stock_movements (created_at)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@stockroom.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, active, created_at)
		VALUES ($1, $2, 'System Admin', $3, $4, true, $5)
	`, userID, adminEmail, string(passwordHash), appctx.RoleAdmin, time.Now().UTC())
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminUserID id.ID) error {
	log.Info("seeding demo data...")

	// 1. Categories
	categories := []struct {
		name        string
		description string
	}{
		{"Beverages", "Drinks, juices and water"},
		{"Snacks", "Chips, biscuits and confectionery"},
		{"Cleaning", "Household cleaning supplies"},
	}

	categoryIDs := make(map[string]id.ID)
	for _, c := range categories {
		cid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO categories (id, name, description, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO NOTHING
		`, cid, c.name, c.description)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.name, err)
		}
		if commandTag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM categories WHERE name = $1`, c.name,
			).Scan(&cid); err != nil {
				return fmt.Errorf("fetch category %q: %w", c.name, err)
			}
		}
		categoryIDs[c.name] = cid
	}

	// 2. Supplier
	supplierID := id.New()
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM suppliers WHERE name = $1`, "Acme Wholesale",
	).Scan(&supplierID)
	if errors.Is(err, pgx.ErrNoRows) {
		supplierID = id.New()
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO suppliers (id, name, contact, phone, email, address, created_at)
			VALUES ($1, 'Acme Wholesale', 'Jamie Lee', '+1-555-0100', 'orders@acme.example', '12 Dock Road', NOW())
		`, supplierID)
	}
	if err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}

	// 3. Products, created empty. Initial quantities arrive through the
	// movement engine below so the ledger stays consistent from day one.
	type productSeed struct {
		sku          string
		name         string
		category     string
		unit         string
		costPrice    string
		sellingPrice string
		reorderLevel int
		initialQty   int
	}

	products := []productSeed{
		{"BEV-001", "Sparkling Water 500ml", "Beverages", "pcs", "0.45", "1.20", 24, 120},
		{"BEV-002", "Orange Juice 1L", "Beverages", "pcs", "1.10", "2.50", 12, 48},
		{"SNK-001", "Salted Chips 150g", "Snacks", "pcs", "0.80", "1.99", 20, 60},
		{"SNK-002", "Chocolate Biscuits", "Snacks", "box", "1.50", "3.25", 10, 30},
		{"CLN-001", "All-Purpose Cleaner 1L", "Cleaning", "pcs", "2.20", "4.75", 6, 18},
	}

	txManager := postgres.NewTxManager(pool)
	stockService := stock.NewService(
		stock_repo.NewProductStockRepo(txManager),
		stock_repo.NewLedgerRepo(txManager),
		stock_repo.NewReceiptRepo(txManager),
		txManager,
	)

	for _, p := range products {
		var productID id.ID
		err := pool.Pool.QueryRow(ctx,
			`SELECT id FROM products WHERE sku = $1`, p.sku,
		).Scan(&productID)
		if err == nil {
			log.Infow("product already exists, skipping", "sku", p.sku)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check product %q: %w", p.sku, err)
		}

		productID = id.New()
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO products (
				id, sku, name, category_id, supplier_id, unit,
				cost_price, selling_price, stock, reorder_level, status,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, 'active', NOW(), NOW())
		`, productID, p.sku, p.name, categoryIDs[p.category], supplierID, p.unit,
			types.MustMoney(p.costPrice), types.MustMoney(p.sellingPrice), p.reorderLevel)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.sku, err)
		}

		if p.initialQty > 0 {
			remarks := "initial stock"
			_, err = stockService.RecordIn(ctx, stock.RecordInInput{
				ProductID:   productID,
				Qty:         p.initialQty,
				CostPerUnit: types.MustMoney(p.costPrice),
				SupplierID:  &supplierID,
				Remarks:     &remarks,
				ActorID:     adminUserID,
			})
			if err != nil {
				return fmt.Errorf("record initial stock for %q: %w", p.sku, err)
			}
		}

		log.Infow("product seeded", "sku", p.sku, "qty", p.initialQty)
	}

	log.Info("demo data seeded")
	return nil
}
