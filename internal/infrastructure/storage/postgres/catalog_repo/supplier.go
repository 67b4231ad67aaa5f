package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/infrastructure/storage/postgres"
)

const supplierTable = "suppliers"

var supplierColumns = []string{"id", "name", "contact", "phone", "email", "address", "created_at"}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new supplier.
func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Insert(supplierTable).
		Columns(supplierColumns...).
		Values(s.ID, s.Name, s.Contact, s.Phone, s.Email, s.Address, s.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", postgres.MapError(err))
	}
	return nil
}

// Update stores supplier changes.
func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Update(supplierTable).
		Set("name", s.Name).
		Set("contact", s.Contact).
		Set("phone", s.Phone).
		Set("email", s.Email).
		Set("address", s.Address).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID.String())
	}
	return nil
}

// Delete removes a supplier.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	q := r.builder.Delete(supplierTable).Where(squirrel.Eq{"id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	return nil
}

// GetByID retrieves a supplier by ID.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(supplierTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List retrieves suppliers with optional name search.
func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*supplier.Supplier, int64, error) {
	base := r.builder.Select(supplierColumns...).From(supplierTable)
	count := r.builder.Select("COUNT(*)").From(supplierTable)

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
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
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

	var suppliers []*supplier.Supplier
	if err := pgxscan.Select(ctx, querier, &suppliers, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select suppliers: %w", err)
	}
	return suppliers, total, nil
}

// CountProducts reports how many products reference the supplier.
func (r *SupplierRepo) CountProducts(ctx context.Context, supplierID id.ID) (int64, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE supplier_id = $1", productTable)

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, supplierID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Ensure interface compliance.
var _ supplier.Repository = (*SupplierRepo)(nil)
