package product

import (
	"context"
	"fmt"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/pkg/logger"
)

// Service provides business operations for the product catalog.
// Stock changes are out of its hands: see internal/domain/stock.
type Service struct {
	repo Repository
}

// NewService creates a new product catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new product. The SKU must be unique.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing != nil {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "sku", p.SKU)
	return nil
}

// Update validates and stores product changes. Stock edits through this
// path are rejected: the ledger would silently diverge.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Stock != current.Stock {
		return apperror.NewValidation("stock cannot be edited directly, use stock in/out").
			WithDetail("field", "stock")
	}

	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing != nil && existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product that has no movement history.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}

	has, err := s.repo.HasMovements(ctx, productID)
	if err != nil {
		return fmt.Errorf("check movements: %w", err)
	}
	if has {
		return apperror.NewConflict("product has stock movements and cannot be deleted, set it inactive instead")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, int64, error) {
	return s.repo.List(ctx, filter)
}
