package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckoutInput defines the data required to convert a cart into an order.
type CheckoutInput struct {
	UserID          uuid.UUID
	CouponCode      string // Optional; empty means no coupon.
	ShippingAddress string
	BillingAddress  string // Optional; defaults to the shipping address.
}

// CheckoutUsecase converts the user's cart into an order within a single
// transaction: products are revalidated, prices snapshotted, the coupon
// (if any) applied, stock decremented and the cart cleared. Any failure
// rolls the whole conversion back.
type CheckoutUsecase interface {
	// Checkout performs the cart-to-order conversion and returns the
	// created order in status pending.
	Checkout(ctx context.Context, input CheckoutInput) (*entity.Order, error)
}
