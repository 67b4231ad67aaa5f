// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	productTable        = "products"
	stockMovementsTable = "stock_movements"
)

var productColumns = []string{
	"id", "sku", "name", "category_id", "supplier_id", "unit",
	"cost_price", "selling_price", "stock", "reorder_level",
	"status", "created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productTable).
		Columns(productColumns...).
		Values(
			p.ID, p.SKU, p.Name, p.CategoryID, p.SupplierID, p.Unit,
			p.CostPrice, p.SellingPrice, p.Stock, p.ReorderLevel,
			p.Status, p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", postgres.MapError(err))
	}
	return nil
}

// Update stores product changes. Stock is intentionally not part of
// the update set; only the movement engine writes it.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productTable).
		Set("sku", p.SKU).
		Set("name", p.Name).
		Set("category_id", p.CategoryID).
		Set("supplier_id", p.SupplierID).
		Set("unit", p.Unit).
		Set("cost_price", p.CostPrice).
		Set("selling_price", p.SellingPrice).
		Set("reorder_level", p.ReorderLevel).
		Set("status", p.Status).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetBySKU retrieves a product by SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// List retrieves products matching the filter with a total count.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, int64, error) {
	base := r.builder.Select(productColumns...).From(productTable)
	count := r.builder.Select("COUNT(*)").From(productTable)

	base, count = applyProductFilter(base, count, filter)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	base = base.OrderBy("name ASC")
	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		base = base.Offset(uint64(filter.Offset))
	}

	sql, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}
	return products, total, nil
}

// HasMovements reports whether the ledger references the product.
func (r *ProductRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE product_id = $1)", stockMovementsTable)

	var exists bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check movements: %w", err)
	}
	return exists, nil
}

// applyProductFilter adds filter conditions to both the page and the
// count query so their results agree.
func applyProductFilter(base, count squirrel.SelectBuilder, filter product.ListFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	if filter.Search != "" {
		cond := squirrel.Or{
			squirrel.ILike{"sku": "%" + filter.Search + "%"},
			squirrel.ILike{"name": "%" + filter.Search + "%"},
		}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.CategoryID != nil {
		cond := squirrel.Eq{"category_id": *filter.CategoryID}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.Status != nil {
		cond := squirrel.Eq{"status": *filter.Status}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.LowStock {
		cond := squirrel.Expr("stock <= reorder_level")
		base = base.Where(cond)
		count = count.Where(cond)
	}
	return base, count
}

// Ensure interface compliance.
var _ product.Repository = (*ProductRepo)(nil)
