package repository

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// ErrCartItemNotFound is returned when a cart line is not found.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository defines the interface for cart line persistence.
// Lines are unique per (user, product); the service layer enforces the
// quantity rules, this layer only stores.
type CartRepository interface {
	// ListByUser retrieves all cart lines for a user, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// FindByID retrieves a single cart line by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)

	// FindByUserAndProduct retrieves the user's line for a product, if any.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)

	// Create persists a new cart line.
	Create(ctx context.Context, item *entity.CartItem) error

	// UpdateQuantity sets the quantity of an existing line.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// Delete removes a single cart line.
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearByUser removes all cart lines for a user. Called after a
	// successful checkout inside the checkout transaction.
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}
