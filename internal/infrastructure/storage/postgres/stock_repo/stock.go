// Package stock_repo provides PostgreSQL implementations for the stock
// ledger repositories.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// ProductStockRepo implements stock.ProductStockRepository against the
// products table. Locking and writing must happen inside the
// transaction opened by the mutation engine.
type ProductStockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductStockRepo creates a new product stock repository.
func NewProductStockRepo(txm *postgres.TxManager) *ProductStockRepo {
	return &ProductStockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LockStock acquires an exclusive row lock on the product and returns
// its current stock. Blocks until a concurrent holder commits or rolls
// back; a lock_timeout turns the wait into SQLSTATE 55P03.
func (r *ProductStockRepo) LockStock(ctx context.Context, productID id.ID) (int, error) {
	sql := `SELECT stock FROM products WHERE id = $1 FOR UPDATE`

	var current int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, productID).Scan(&current)
	if err != nil {
		if isNoRows(err) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, postgres.MapError(fmt.Errorf("lock stock: %w", err))
	}
	return current, nil
}

// WriteStock sets the product's stock inside the enclosing transaction.
func (r *ProductStockRepo) WriteStock(ctx context.Context, productID id.ID, newStock int) error {
	q := r.builder.Update(productTable).
		Set("stock", newStock).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("write stock: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// GetStock reads the current stock without locking.
func (r *ProductStockRepo) GetStock(ctx context.Context, productID id.ID) (int, error) {
	sql := `SELECT stock FROM products WHERE id = $1`

	var current int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, productID).Scan(&current)
	if err != nil {
		if isNoRows(err) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return current, nil
}

// Ensure interface compliance.
var _ stock.ProductStockRepository = (*ProductStockRepo)(nil)
