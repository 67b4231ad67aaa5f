// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/pkg/logger"
)

// Supplier is a source of stock receipts.
type Supplier struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Contact   *string   `db:"contact" json:"contact,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a supplier with a generated ID.
func New(name string) *Supplier {
	return &Supplier{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks field constraints.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// Repository defines storage operations for suppliers.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	List(ctx context.Context, search string, limit, offset int) ([]*Supplier, int64, error)

	// CountProducts reports how many products reference the supplier.
	CountProducts(ctx context.Context, supplierID id.ID) (int64, error)
}

// Service provides business operations for suppliers.
type Service struct {
	repo Repository
}

// NewService creates a supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	logger.Info(ctx, "supplier created", "id", sup.ID, "name", sup.Name)
	return nil
}

// Update validates and stores supplier changes.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// Delete removes a supplier that no product references.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	if _, err := s.repo.GetByID(ctx, supplierID); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return apperror.NewConflict("supplier is in use by products").
			WithDetail("products", count)
	}
	return s.repo.Delete(ctx, supplierID)
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List retrieves suppliers with optional name search.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Supplier, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}
