// Package category provides the product category catalog.
package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/pkg/logger"
)

// Category groups products for filtering and reporting.
type Category struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// New creates a category with a generated ID.
func New(name string, description *string) *Category {
	return &Category{
		ID:          id.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks field constraints.
func (c *Category) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// Repository defines storage operations for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, search string, limit, offset int) ([]*Category, int64, error)

	// CountProducts reports how many products reference the category.
	CountProducts(ctx context.Context, categoryID id.ID) (int64, error)
}

// Service provides business operations for categories.
type Service struct {
	repo Repository
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a category with a unique name.
func (s *Service) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, c.Name); err == nil && existing != nil {
		return apperror.NewDuplicate("category", "name", c.Name)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	logger.Info(ctx, "category created", "id", c.ID, "name", c.Name)
	return nil
}

// Update validates and stores category changes.
func (s *Service) Update(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, c.Name); err == nil && existing != nil && existing.ID != c.ID {
		return apperror.NewDuplicate("category", "name", c.Name)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category that no product references.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return apperror.NewConflict("category is in use by products").
			WithDetail("products", count)
	}
	return s.repo.Delete(ctx, categoryID)
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List retrieves categories with optional name search.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Category, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}
