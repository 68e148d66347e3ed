package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product, quantity) line of a shopping cart.
// A user has at most one line per product; adding the same product again
// sums the quantities.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"` // Always positive; a zero quantity deletes the line.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
