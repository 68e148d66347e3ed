package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one cart entry joined with its current product data.
type CartLine struct {
	Item     *entity.CartItem
	Product  *entity.Product
	Subtotal decimal.Decimal // Current unit price times quantity.
}

// CartOutput is a user's full cart with the running total.
type CartOutput struct {
	Lines []CartLine
	Total decimal.Decimal
}

// CartUsecase defines the interface for shopping cart operations. All
// operations act on the calling user's own cart.
type CartUsecase interface {
	// GetCart returns the user's cart lines with current product data and
	// the cart total.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)

	// AddItem puts quantity units of a product into the cart. If the
	// product is already in the cart the quantities are summed. The
	// combined quantity must not exceed available stock.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartOutput, error)

	// UpdateItemQuantity sets the quantity of an existing cart line.
	// A quantity of zero removes the line.
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartOutput, error)

	// RemoveItem deletes a single line from the cart.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartOutput, error)

	// ClearCart removes every line from the cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
