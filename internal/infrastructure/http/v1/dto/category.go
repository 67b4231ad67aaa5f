package dto

import (
	"stockroom/internal/domain/catalogs/category"
)

// CategoryRequest represents a request to create or update a category.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

// ToEntity converts the request to a new domain category.
func (r *CategoryRequest) ToEntity() *category.Category {
	return category.New(r.Name, r.Description)
}

// ApplyTo applies the request to an existing category.
func (r *CategoryRequest) ApplyTo(c *category.Category) {
	c.Name = r.Name
	c.Description = r.Description
}
