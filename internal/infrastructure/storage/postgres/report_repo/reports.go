// Package report_repo provides PostgreSQL implementations for report
// repositories. All queries are read-only aggregations.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetCounts returns catalog totals and the low-stock count.
func (r *ReportRepo) GetCounts(ctx context.Context) (reports.Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM suppliers) AS suppliers,
			(SELECT COUNT(*) FROM products
			 WHERE status = 'active' AND stock <= reorder_level) AS low_stock
	`

	var counts reports.Counts
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &counts, query); err != nil {
		return counts, fmt.Errorf("get counts: %w", err)
	}
	return counts, nil
}

// GetValuation returns inventory value for active products.
func (r *ReportRepo) GetValuation(ctx context.Context) (reports.Valuation, error) {
	query := `
		SELECT
			COALESCE(SUM(stock * cost_price), 0) AS cost_value,
			COALESCE(SUM(stock * selling_price), 0) AS selling_value
		FROM products
		WHERE status = 'active'
	`

	var valuation reports.Valuation
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &valuation, query); err != nil {
		return valuation, fmt.Errorf("get valuation: %w", err)
	}
	return valuation, nil
}

// GetFlowTotals sums movement quantities in [from, to).
func (r *ReportRepo) GetFlowTotals(ctx context.Context, from, to time.Time) (reports.FlowTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN movement_type = 'IN' THEN qty ELSE 0 END), 0) AS in_qty,
			COALESCE(SUM(CASE WHEN movement_type = 'OUT' THEN qty ELSE 0 END), 0) AS out_qty
		FROM stock_movements
		WHERE created_at >= $1 AND created_at < $2
	`

	var totals reports.FlowTotals
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &totals, query, from, to); err != nil {
		return totals, fmt.Errorf("get flow totals: %w", err)
	}
	return totals, nil
}

// GetDailyFlow returns per-day in/out sums since the given date.
// Days without movements are absent; the service fills gaps.
func (r *ReportRepo) GetDailyFlow(ctx context.Context, since time.Time) ([]reports.DailyFlow, error) {
	query := `
		SELECT
			date_trunc('day', created_at) AS date,
			COALESCE(SUM(CASE WHEN movement_type = 'IN' THEN qty ELSE 0 END), 0) AS in_qty,
			COALESCE(SUM(CASE WHEN movement_type = 'OUT' THEN qty ELSE 0 END), 0) AS out_qty
		FROM stock_movements
		WHERE created_at >= $1
		GROUP BY date_trunc('day', created_at)
		ORDER BY date
	`

	var series []reports.DailyFlow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &series, query, since); err != nil {
		return nil, fmt.Errorf("get daily flow: %w", err)
	}
	return series, nil
}

// GetStockByCategory returns on-hand totals grouped by category.
func (r *ReportRepo) GetStockByCategory(ctx context.Context) ([]reports.CategoryStock, error) {
	query := `
		SELECT
			c.name AS category_name,
			COALESCE(SUM(p.stock), 0) AS total_stock
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	var rows []reports.CategoryStock
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query); err != nil {
		return nil, fmt.Errorf("get stock by category: %w", err)
	}
	return rows, nil
}

// GetLowStockItems lists active products at or below reorder level.
func (r *ReportRepo) GetLowStockItems(ctx context.Context) ([]reports.LowStockItem, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.sku,
			p.name,
			c.name AS category_name,
			p.stock,
			p.reorder_level
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.status = 'active' AND p.stock <= p.reorder_level
		ORDER BY p.stock ASC, p.name ASC
	`

	var items []reports.LowStockItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query); err != nil {
		return nil, fmt.Errorf("get low stock items: %w", err)
	}
	return items, nil
}

// Ensure interface compliance.
var _ reports.Repository = (*ReportRepo)(nil)
