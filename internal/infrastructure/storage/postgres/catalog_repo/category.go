package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/category"
	"stockroom/internal/infrastructure/storage/postgres"
)

const categoryTable = "categories"

var categoryColumns = []string{"id", "name", "description", "created_at"}

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	q := r.builder.Insert(categoryTable).
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.Description, c.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert category: %w", postgres.MapError(err))
	}
	return nil
}

// Update stores category changes.
func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	q := r.builder.Update(categoryTable).
		Set("name", c.Name).
		Set("description", c.Description).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID.String())
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	q := r.builder.Delete(categoryTable).Where(squirrel.Eq{"id": categoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID.String())
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoryTable).
		Where(squirrel.Eq{"id": categoryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", categoryID.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// GetByName retrieves a category by exact name.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*category.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoryTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", name)
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &c, nil
}

// List retrieves categories with optional name search.
func (r *CategoryRepo) List(ctx context.Context, search string, limit, offset int) ([]*category.Category, int64, error) {
	base := r.builder.Select(categoryColumns...).From(categoryTable)
	count := r.builder.Select("COUNT(*)").From(categoryTable)

	if search != "" {
		cond := squirrel.ILike{"name": "%" + search + "%"}
		base = base.Where(cond)
		count = count.Where(cond)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	base = base.OrderBy("name ASC")
	if limit > 0 {
		base = base.Limit(uint64(limit))
	}
	if offset > 0 {
		base = base.Offset(uint64(offset))
	}

	sql, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var categories []*category.Category
	if err := pgxscan.Select(ctx, querier, &categories, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select categories: %w", err)
	}
	return categories, total, nil
}

// CountProducts reports how many products reference the category.
func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID id.ID) (int64, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE category_id = $1", productTable)

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Ensure interface compliance.
var _ category.Repository = (*CategoryRepo)(nil)
