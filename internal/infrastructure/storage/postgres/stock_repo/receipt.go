package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stockInTable         = "stock_in"
	stockOutTable        = "stock_out"
	stockAdjustmentTable = "stock_adjustments"
)

// ReceiptRepo implements stock.ReceiptRepository. Receipt rows are the
// business events movements point at through ref_kind/ref_id.
type ReceiptRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txm *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateStockIn inserts a stock-in receipt row.
func (r *ReceiptRepo) CreateStockIn(ctx context.Context, rec stock.InReceipt) error {
	q := r.builder.Insert(stockInTable).
		Columns("id", "product_id", "qty", "cost_per_unit", "supplier_id", "remarks", "created_by", "created_at").
		Values(rec.ID, rec.ProductID, rec.Qty, rec.CostPerUnit, rec.SupplierID, rec.Remarks, rec.CreatedBy, rec.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert stock_in: %w", err))
	}
	return nil
}

// CreateStockOut inserts a stock-out issue row.
func (r *ReceiptRepo) CreateStockOut(ctx context.Context, iss stock.OutIssue) error {
	q := r.builder.Insert(stockOutTable).
		Columns("id", "product_id", "qty", "customer", "remarks", "created_by", "created_at").
		Values(iss.ID, iss.ProductID, iss.Qty, iss.Customer, iss.Remarks, iss.CreatedBy, iss.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert stock_out: %w", err))
	}
	return nil
}

// CreateAdjustment inserts a stock adjustment row.
func (r *ReceiptRepo) CreateAdjustment(ctx context.Context, adj stock.Adjustment) error {
	q := r.builder.Insert(stockAdjustmentTable).
		Columns("id", "product_id", "counted_qty", "remarks", "created_by", "created_at").
		Values(adj.ID, adj.ProductID, adj.CountedQty, adj.Remarks, adj.CreatedBy, adj.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert stock_adjustment: %w", err))
	}
	return nil
}

// Ensure interface compliance.
var _ stock.ReceiptRepository = (*ReceiptRepo)(nil)
