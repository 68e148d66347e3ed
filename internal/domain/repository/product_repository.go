// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when an atomic stock decrement cannot
	// be satisfied by the remaining stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category        string
	Search          string // Matches against name, case-insensitive substring.
	IncludeInactive bool   // Admin listings include deactivated products.
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves a page of products matching the filter, newest first,
	// along with the total number of matches.
	List(ctx context.Context, filter ProductFilter, offset, limit int) ([]*entity.Product, int64, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// DecrementStock atomically subtracts quantity from the product's stock.
	// The update is conditional on stock >= quantity so that two concurrent
	// checkouts can never drive stock negative; when the condition fails it
	// returns ErrInsufficientStock without modifying the row.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// AdjustStock adds delta (which may be negative) to the product's stock,
	// clamping at zero. Used by admin restocking.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}
