package product

import (
	"context"

	"stockroom/internal/core/id"
)

// ListFilter narrows product listings.
type ListFilter struct {
	Search     string // matches sku or name
	CategoryID *id.ID
	Status     *Status
	LowStock   bool // only products at or below reorder level
	Limit      int
	Offset     int
}

// Repository defines storage operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)

	// HasMovements reports whether the ledger references the product.
	// Products with history cannot be deleted.
	HasMovements(ctx context.Context, productID id.ID) (bool, error)
}
