// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// ListProductsInput defines the filters and paging for a catalog listing.
type ListProductsInput struct {
	Category        string
	Search          string
	Page            int
	PageSize        int
	IncludeInactive bool // Honored only for admin actors.
}

// CreateProductInput defines the data required to create a catalog product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

// UpdateProductInput defines the data for a catalog product update. Nil
// fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	ImageURL    *string
	IsActive    *bool
}

// --- Output DTOs ---

// ProductListOutput returns one page of catalog products.
type ProductListOutput struct {
	Products []*entity.Product
	Total    int64
	Page     int
	PageSize int
}

// ProductDetailOutput returns a product together with its review summary.
type ProductDetailOutput struct {
	Product       *entity.Product
	AverageRating float64
	ReviewCount   int64
}

// CatalogUsecase defines the interface for product catalog operations,
// both the public browsing surface and the admin management surface.
type CatalogUsecase interface {
	// ListProducts returns a page of products. Non-admin listings only
	// ever see active products.
	ListProducts(ctx context.Context, actor *service.Actor, input ListProductsInput) (*ProductListOutput, error)

	// GetProduct returns a single product with its review summary.
	// Inactive products are visible to admins only.
	GetProduct(ctx context.Context, actor *service.Actor, productID uuid.UUID) (*ProductDetailOutput, error)

	// CreateProduct adds a product to the catalog. Admin only.
	CreateProduct(ctx context.Context, actor service.Actor, input CreateProductInput) (*entity.Product, error)

	// UpdateProduct modifies a product. Admin only.
	UpdateProduct(ctx context.Context, actor service.Actor, productID uuid.UUID, input UpdateProductInput) (*entity.Product, error)

	// AdjustStock adds delta (possibly negative) to a product's stock,
	// clamping at zero. Admin only.
	AdjustStock(ctx context.Context, actor service.Actor, productID uuid.UUID, delta int) (*entity.Product, error)
}
