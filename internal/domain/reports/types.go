// Package reports provides read-only aggregations over the catalog and
// the movement ledger for dashboards and exports. It never writes.
package reports

import (
	"time"

	"stockroom/internal/core/types"
	"stockroom/internal/domain/stock"
)

// Counts holds catalog totals for the dashboard header.
type Counts struct {
	Products   int64 `db:"products" json:"products"`
	Categories int64 `db:"categories" json:"categories"`
	Suppliers  int64 `db:"suppliers" json:"suppliers"`
	LowStock   int64 `db:"low_stock" json:"lowStock"`
}

// Valuation holds inventory value at cost and at selling price,
// active products only.
type Valuation struct {
	CostValue    types.Money `db:"cost_value" json:"costValue"`
	SellingValue types.Money `db:"selling_value" json:"sellingValue"`
}

// FlowTotals holds stock-in/out quantity sums for a period.
type FlowTotals struct {
	InQty  int64 `db:"in_qty" json:"inQty"`
	OutQty int64 `db:"out_qty" json:"outQty"`
}

// DailyFlow is one day of in/out quantities for trend charts.
type DailyFlow struct {
	Date   time.Time `db:"date" json:"date"`
	InQty  int64     `db:"in_qty" json:"inQty"`
	OutQty int64     `db:"out_qty" json:"outQty"`
}

// CategoryStock is the total on-hand quantity per category.
type CategoryStock struct {
	CategoryName string `db:"category_name" json:"categoryName"`
	TotalStock   int64  `db:"total_stock" json:"totalStock"`
}

// Dashboard aggregates everything the overview screen shows.
type Dashboard struct {
	Counts          Counts                 `json:"counts"`
	Valuation       Valuation              `json:"valuation"`
	Today           FlowTotals             `json:"today"`
	ThisMonth       FlowTotals             `json:"thisMonth"`
	RecentMovements []stock.MovementRecord `json:"recentMovements"`
	DailyFlow       []DailyFlow            `json:"dailyFlow"`
	StockByCategory []CategoryStock        `json:"stockByCategory"`
}

// LowStockItem is one row of the low-stock report.
type LowStockItem struct {
	ProductID    string `db:"product_id" json:"productId"`
	SKU          string `db:"sku" json:"sku"`
	Name         string `db:"name" json:"name"`
	CategoryName string `db:"category_name" json:"categoryName"`
	Stock        int    `db:"stock" json:"stock"`
	ReorderLevel int    `db:"reorder_level" json:"reorderLevel"`
}
