// Package export renders catalog and ledger data into downloadable
// formats: CSV for spreadsheets and a zstd-compressed JSON snapshot for
// full backups.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/reports"
	"stockroom/internal/domain/stock"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteProductsCSV writes the product catalog as CSV.
func WriteProductsCSV(w io.Writer, products []*product.Product) error {
	cw := csv.NewWriter(w)

	header := []string{
		"sku", "name", "unit", "cost_price", "selling_price",
		"stock", "reorder_level", "status", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range products {
		row := []string{
			p.SKU,
			p.Name,
			p.Unit,
			p.CostPrice.String(),
			p.SellingPrice.String(),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.ReorderLevel),
			string(p.Status),
			p.CreatedAt.Format(timeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write product row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMovementsCSV writes ledger records as CSV, including the
// before/after stock snapshots.
func WriteMovementsCSV(w io.Writer, records []stock.MovementRecord) error {
	cw := csv.NewWriter(w)

	header := []string{
		"created_at", "movement_type", "product_sku", "product_name",
		"qty", "prev_stock", "new_stock", "actor", "remarks",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		remarks := ""
		if rec.Remarks != nil {
			remarks = *rec.Remarks
		}
		row := []string{
			rec.CreatedAt.Format(timeLayout),
			string(rec.Type),
			rec.ProductSKU,
			rec.ProductName,
			strconv.Itoa(rec.Qty),
			strconv.Itoa(rec.PrevStock),
			strconv.Itoa(rec.NewStock),
			rec.ActorName,
			remarks,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write movement row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteLowStockCSV writes the low-stock report as CSV.
func WriteLowStockCSV(w io.Writer, items []reports.LowStockItem) error {
	cw := csv.NewWriter(w)

	header := []string{"sku", "name", "category", "stock", "reorder_level"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.SKU,
			item.Name,
			item.CategoryName,
			strconv.Itoa(item.Stock),
			strconv.Itoa(item.ReorderLevel),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write low stock row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
