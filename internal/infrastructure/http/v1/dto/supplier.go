package dto

import (
	"stockroom/internal/domain/catalogs/supplier"
)

// SupplierRequest represents a request to create or update a supplier.
type SupplierRequest struct {
	Name    string  `json:"name" binding:"required"`
	Contact *string `json:"contact,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}

// ToEntity converts the request to a new domain supplier.
func (r *SupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Name)
	r.ApplyTo(s)
	return s
}

// ApplyTo applies the request to an existing supplier.
func (r *SupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Name = r.Name
	s.Contact = r.Contact
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
}
