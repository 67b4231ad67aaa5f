// Package product provides the Product catalog.
package product

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Status defines product availability for day-to-day operations.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Product is a stock-keeping unit. Stock is owned by the mutation
// engine: nothing else writes it while the system is correct (direct
// administrative edits are an explicit exception outside this contract).
type Product struct {
	ID         id.ID  `db:"id" json:"id"`
	SKU        string `db:"sku" json:"sku"`
	Name       string `db:"name" json:"name"`
	CategoryID id.ID  `db:"category_id" json:"categoryId"`
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Unit is the unit of measure label (pcs, box, kg).
	Unit string `db:"unit" json:"unit"`

	CostPrice    types.Money `db:"cost_price" json:"costPrice"`
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Stock is the current on-hand quantity, never negative.
	Stock int `db:"stock" json:"stock"`

	// ReorderLevel is the low-stock threshold for reporting.
	ReorderLevel int `db:"reorder_level" json:"reorderLevel"`

	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with generated ID and defaults.
func New(sku, name string, categoryID id.ID) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:           id.New(),
		SKU:          sku,
		Name:         name,
		CategoryID:   categoryID,
		Unit:         "pcs",
		CostPrice:    types.ZeroMoney(),
		SellingPrice: types.ZeroMoney(),
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.ReorderLevel
}

// Validate checks field constraints before persistence.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").WithDetail("field", "categoryId")
	}
	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").WithDetail("field", "costPrice")
	}
	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").WithDetail("field", "sellingPrice")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").WithDetail("field", "stock")
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").WithDetail("field", "reorderLevel")
	}
	if p.Status != StatusActive && p.Status != StatusInactive {
		return apperror.NewValidation("invalid status").WithDetail("value", string(p.Status))
	}
	return nil
}
