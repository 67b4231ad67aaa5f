package stock_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "product_id", "movement_type", "qty", "prev_stock", "new_stock",
	"ref_kind", "ref_id", "actor_id", "remarks", "created_at",
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// LedgerRepo implements stock.LedgerRepository. The movements table is
// append-only; no update or delete statements exist here.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts one movement as part of the enclosing transaction.
func (r *LedgerRepo) Append(ctx context.Context, m stock.Movement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.ProductID, m.Type, m.Qty, m.PrevStock, m.NewStock,
			m.RefKind, m.RefID, m.ActorID, m.Remarks, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("append movement: %w", err))
	}
	return nil
}

// ListByProduct returns all movements for a product in creation order.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID id.ID) ([]stock.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return movements, nil
}

// List returns movements matching the filter, newest first, joined with
// product and actor names for listing screens.
func (r *LedgerRepo) List(ctx context.Context, filter stock.MovementFilter) ([]stock.MovementRecord, int64, error) {
	joined := []string{
		"m.id", "m.product_id", "m.movement_type", "m.qty",
		"m.prev_stock", "m.new_stock", "m.ref_kind", "m.ref_id",
		"m.actor_id", "m.remarks", "m.created_at",
		"p.sku AS product_sku", "p.name AS product_name",
		"COALESCE(u.name, '') AS actor_name",
	}

	base := r.builder.Select(joined...).
		From(movementsTable + " m").
		Join(productTable + " p ON p.id = m.product_id").
		LeftJoin("users u ON u.id = m.actor_id")
	count := r.builder.Select("COUNT(*)").From(movementsTable + " m")

	base, count = applyMovementFilter(base, count, filter)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	base = base.OrderBy("m.created_at DESC", "m.id DESC")
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

	var records []stock.MovementRecord
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select movement records: %w", err)
	}
	return records, total, nil
}

func applyMovementFilter(base, count squirrel.SelectBuilder, filter stock.MovementFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	if filter.ProductID != nil {
		cond := squirrel.Eq{"m.product_id": *filter.ProductID}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.Type != nil {
		cond := squirrel.Eq{"m.movement_type": *filter.Type}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.FromDate != nil {
		cond := squirrel.GtOrEq{"m.created_at": *filter.FromDate}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	if filter.ToDate != nil {
		cond := squirrel.Lt{"m.created_at": *filter.ToDate}
		base = base.Where(cond)
		count = count.Where(cond)
	}
	return base, count
}

// Ensure interface compliance.
var _ stock.LedgerRepository = (*LedgerRepo)(nil)
