package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/stock"
)

type fakeRepo struct {
	counts    Counts
	valuation Valuation
	flows     FlowTotals
	daily     []DailyFlow
	byCat     []CategoryStock
	lowStock  []LowStockItem
}

func (f *fakeRepo) GetCounts(context.Context) (Counts, error)       { return f.counts, nil }
func (f *fakeRepo) GetValuation(context.Context) (Valuation, error) { return f.valuation, nil }
func (f *fakeRepo) GetFlowTotals(_ context.Context, _, _ time.Time) (FlowTotals, error) {
	return f.flows, nil
}
func (f *fakeRepo) GetDailyFlow(context.Context, time.Time) ([]DailyFlow, error) {
	return f.daily, nil
}
func (f *fakeRepo) GetStockByCategory(context.Context) ([]CategoryStock, error) {
	return f.byCat, nil
}
func (f *fakeRepo) GetLowStockItems(context.Context) ([]LowStockItem, error) {
	return f.lowStock, nil
}

type fakeLedger struct {
	records  []stock.MovementRecord
	gotLimit int
}

func (f *fakeLedger) Append(context.Context, stock.Movement) error { return nil }
func (f *fakeLedger) ListByProduct(context.Context, id.ID) ([]stock.Movement, error) {
	return nil, nil
}
func (f *fakeLedger) List(_ context.Context, filter stock.MovementFilter) ([]stock.MovementRecord, int64, error) {
	f.gotLimit = filter.Limit
	return f.records, int64(len(f.records)), nil
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFillMissingDays(t *testing.T) {
	sparse := []DailyFlow{
		{Date: day("2026-03-02"), InQty: 5, OutQty: 1},
		{Date: day("2026-03-04"), InQty: 0, OutQty: 3},
	}

	out := fillMissingDays(sparse, day("2026-03-01"), day("2026-03-05"))
	require.Len(t, out, 5)

	assert.Equal(t, day("2026-03-01"), out[0].Date)
	assert.Zero(t, out[0].InQty)
	assert.Zero(t, out[0].OutQty)

	assert.Equal(t, int64(5), out[1].InQty)
	assert.Equal(t, int64(1), out[1].OutQty)

	assert.Zero(t, out[2].InQty)

	assert.Equal(t, int64(3), out[3].OutQty)

	assert.Equal(t, day("2026-03-05"), out[4].Date)
	assert.Zero(t, out[4].InQty)
}

func TestFillMissingDays_Empty(t *testing.T) {
	out := fillMissingDays(nil, day("2026-03-01"), day("2026-03-03"))
	require.Len(t, out, 3)
	for i, d := range out {
		assert.Equal(t, day("2026-03-01").AddDate(0, 0, i), d.Date)
		assert.Zero(t, d.InQty)
		assert.Zero(t, d.OutQty)
	}
}

func TestGetDashboard(t *testing.T) {
	repo := &fakeRepo{
		counts:    Counts{Products: 12, Categories: 3, Suppliers: 2, LowStock: 4},
		valuation: Valuation{CostValue: types.MustMoney("100.50"), SellingValue: types.MustMoney("180.00")},
		flows:     FlowTotals{InQty: 7, OutQty: 2},
		byCat:     []CategoryStock{{CategoryName: "Beverages", TotalStock: 120}},
	}
	ledger := &fakeLedger{
		records: []stock.MovementRecord{{ProductSKU: "BEV-001", ProductName: "Water"}},
	}

	dash, err := NewService(repo, ledger).GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repo.counts, dash.Counts)
	assert.True(t, dash.Valuation.CostValue.Equal(types.MustMoney("100.50")))
	assert.Equal(t, int64(7), dash.Today.InQty)
	assert.Len(t, dash.RecentMovements, 1)
	assert.Equal(t, recentMovementLimit, ledger.gotLimit)

	// A full window of days comes back even with no recorded flow.
	assert.Len(t, dash.DailyFlow, dailyFlowDays)
	assert.Equal(t, []CategoryStock{{CategoryName: "Beverages", TotalStock: 120}}, dash.StockByCategory)
}

func TestGetLowStock(t *testing.T) {
	repo := &fakeRepo{
		lowStock: []LowStockItem{{SKU: "SNK-001", Stock: 2, ReorderLevel: 10}},
	}

	items, err := NewService(repo, &fakeLedger{}).GetLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SNK-001", items[0].SKU)
}
