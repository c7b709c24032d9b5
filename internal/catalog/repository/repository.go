package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/csukav/Webshop/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSlug    = errors.New("category slug already taken")
)

// ProductFilter narrows List results. Zero values mean no filtering.
type ProductFilter struct {
	CategoryID *uuid.UUID
	NameSearch string
}

type CatalogRepository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context) (int, error)

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategories(ctx context.Context) (int, error)
}
