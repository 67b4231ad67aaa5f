package dto

import (
	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/product"
)

// CreateProductRequest represents a request to create a product.
// InitialStock seeds the on-hand quantity at creation; afterwards only
// stock in/out operations change it.
type CreateProductRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	CategoryID   string  `json:"categoryId" binding:"required"`
	SupplierID   *string `json:"supplierId,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	CostPrice    string  `json:"costPrice,omitempty"`
	SellingPrice string  `json:"sellingPrice,omitempty"`
	InitialStock int     `json:"initialStock" binding:"omitempty,min=0"`
	ReorderLevel int     `json:"reorderLevel" binding:"omitempty,min=0"`
	Status       string  `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
}

// ToEntity converts the request to a domain product.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	categoryID, err := id.Parse(r.CategoryID)
	if err != nil {
		return nil, apperror.NewValidation("invalid category id").WithDetail("value", r.CategoryID)
	}

	p := product.New(r.SKU, r.Name, categoryID)
	p.Stock = r.InitialStock
	p.ReorderLevel = r.ReorderLevel

	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return nil, apperror.NewValidation("invalid supplier id").WithDetail("value", *r.SupplierID)
		}
		p.SupplierID = &supplierID
	}
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	if r.CostPrice != "" {
		m, err := types.NewMoneyFromString(r.CostPrice)
		if err != nil {
			return nil, apperror.NewValidation("invalid cost price").WithDetail("value", r.CostPrice)
		}
		p.CostPrice = m
	}
	if r.SellingPrice != "" {
		m, err := types.NewMoneyFromString(r.SellingPrice)
		if err != nil {
			return nil, apperror.NewValidation("invalid selling price").WithDetail("value", r.SellingPrice)
		}
		p.SellingPrice = m
	}
	if r.Status != "" {
		p.Status = product.Status(r.Status)
	}
	return p, nil
}

// UpdateProductRequest represents a request to update a product.
// Stock is deliberately absent; it only changes through movements.
type UpdateProductRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	CategoryID   string  `json:"categoryId" binding:"required"`
	SupplierID   *string `json:"supplierId,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	CostPrice    string  `json:"costPrice,omitempty"`
	SellingPrice string  `json:"sellingPrice,omitempty"`
	ReorderLevel int     `json:"reorderLevel" binding:"omitempty,min=0"`
	Status       string  `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
}

// ApplyTo applies the update to an existing product.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	categoryID, err := id.Parse(r.CategoryID)
	if err != nil {
		return apperror.NewValidation("invalid category id").WithDetail("value", r.CategoryID)
	}

	p.SKU = r.SKU
	p.Name = r.Name
	p.CategoryID = categoryID
	p.ReorderLevel = r.ReorderLevel

	p.SupplierID = nil
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return apperror.NewValidation("invalid supplier id").WithDetail("value", *r.SupplierID)
		}
		p.SupplierID = &supplierID
	}
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	if r.CostPrice != "" {
		m, err := types.NewMoneyFromString(r.CostPrice)
		if err != nil {
			return apperror.NewValidation("invalid cost price").WithDetail("value", r.CostPrice)
		}
		p.CostPrice = m
	}
	if r.SellingPrice != "" {
		m, err := types.NewMoneyFromString(r.SellingPrice)
		if err != nil {
			return apperror.NewValidation("invalid selling price").WithDetail("value", r.SellingPrice)
		}
		p.SellingPrice = m
	}
	if r.Status != "" {
		p.Status = product.Status(r.Status)
	}
	return nil
}

// ProductListRequest contains product listing filters.
type ProductListRequest struct {
	PaginationRequest
	Search     string `form:"search"`
	CategoryID string `form:"categoryId"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	LowStock   bool   `form:"lowStock"`
}

// ToFilter converts the request to a repository filter.
func (r *ProductListRequest) ToFilter() (product.ListFilter, error) {
	r.Defaults()
	filter := product.ListFilter{
		Search:   r.Search,
		LowStock: r.LowStock,
		Limit:    r.PageSize,
		Offset:   r.Offset(),
	}
	if r.CategoryID != "" {
		categoryID, err := id.Parse(r.CategoryID)
		if err != nil {
			return filter, apperror.NewValidation("invalid category id").WithDetail("value", r.CategoryID)
		}
		filter.CategoryID = &categoryID
	}
	if r.Status != "" {
		status := product.Status(r.Status)
		filter.Status = &status
	}
	return filter, nil
}
