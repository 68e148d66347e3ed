package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusRank orders the forward progression pending -> paid -> processing
// -> shipped -> delivered. Cancelled sits outside the chain.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]

	return ok
}

// CanTransitionTo reports whether an order in status s may move to next.
// Forward transitions along the chain are allowed (admins may skip steps);
// cancellation is allowed only from pending or paid. Delivered and
// cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return false
	}

	if next == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusPaid
	}

	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]

	return okFrom && okTo && to > from
}

// Order is a user's purchase, created atomically with its items at checkout.
// Orders are never deleted; cancellation is a status, not a removal.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`    // Sum of items before discount.
	CouponCode      string          `json:"coupon_code"`     // Empty when no coupon was applied.
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	FinalAmount     decimal.Decimal `json:"final_amount"`    // TotalAmount - DiscountAmount.
	PaymentIntentID string          `json:"payment_intent_id"` // External payment handle, set by the payment flow.
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is an immutable historical record of one product's quantity and
// price within an order. Name, image and unit price are deep copies taken at
// checkout time; the item carries no live reference to the product, so later
// catalog edits never change it.
type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"` // Snapshot at purchase time.
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
}

// TotalPrice returns quantity times the snapshotted unit price.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
