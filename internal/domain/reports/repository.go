package reports

import (
	"context"
	"time"
)

// Repository defines the read-only aggregation queries.
type Repository interface {
	// GetCounts returns catalog totals and the low-stock count
	// (active products with stock at or below reorder level).
	GetCounts(ctx context.Context) (Counts, error)

	// GetValuation returns inventory value for active products.
	GetValuation(ctx context.Context) (Valuation, error)

	// GetFlowTotals sums movement quantities in [from, to).
	GetFlowTotals(ctx context.Context, from, to time.Time) (FlowTotals, error)

	// GetDailyFlow returns per-day in/out sums since the given date.
	GetDailyFlow(ctx context.Context, since time.Time) ([]DailyFlow, error)

	// GetStockByCategory returns on-hand totals grouped by category.
	GetStockByCategory(ctx context.Context) ([]CategoryStock, error)

	// GetLowStockItems lists active products at or below reorder level.
	GetLowStockItems(ctx context.Context) ([]LowStockItem, error)
}
