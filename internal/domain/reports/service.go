package reports

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/domain/stock"
)

const (
	recentMovementLimit = 10
	dailyFlowDays       = 14
)

// Service assembles dashboard and report data.
type Service struct {
	repo   Repository
	ledger stock.LedgerRepository
}

// NewService creates a reports service.
func NewService(repo Repository, ledger stock.LedgerRepository) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// GetDashboard builds the overview screen payload.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	flowSince := startOfDay.AddDate(0, 0, -(dailyFlowDays - 1))

	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}

	valuation, err := s.repo.GetValuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("get valuation: %w", err)
	}

	today, err := s.repo.GetFlowTotals(ctx, startOfDay, now)
	if err != nil {
		return nil, fmt.Errorf("get today totals: %w", err)
	}

	month, err := s.repo.GetFlowTotals(ctx, startOfMonth, now)
	if err != nil {
		return nil, fmt.Errorf("get month totals: %w", err)
	}

	recent, _, err := s.ledger.List(ctx, stock.MovementFilter{Limit: recentMovementLimit})
	if err != nil {
		return nil, fmt.Errorf("list recent movements: %w", err)
	}

	daily, err := s.repo.GetDailyFlow(ctx, flowSince)
	if err != nil {
		return nil, fmt.Errorf("get daily flow: %w", err)
	}

	byCategory, err := s.repo.GetStockByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stock by category: %w", err)
	}

	return &Dashboard{
		Counts:          counts,
		Valuation:       valuation,
		Today:           today,
		ThisMonth:       month,
		RecentMovements: recent,
		DailyFlow:       fillMissingDays(daily, flowSince, startOfDay),
		StockByCategory: byCategory,
	}, nil
}

// GetLowStock returns active products at or below their reorder level.
func (s *Service) GetLowStock(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.repo.GetLowStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("get low stock items: %w", err)
	}
	return items, nil
}

// fillMissingDays expands a sparse daily series into one entry per day
// so charts do not skip days without movements.
func fillMissingDays(series []DailyFlow, from, to time.Time) []DailyFlow {
	byDay := make(map[string]DailyFlow, len(series))
	for _, d := range series {
		byDay[d.Date.Format("2006-01-02")] = d
	}

	var out []DailyFlow
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if d, ok := byDay[key]; ok {
			d.Date = day
			out = append(out, d)
			continue
		}
		out = append(out, DailyFlow{Date: day})
	}
	return out
}
