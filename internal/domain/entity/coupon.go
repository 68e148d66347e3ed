package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

const (
	// DiscountPercentage discounts a percentage of the cart total,
	// optionally capped by MaxDiscount.
	DiscountPercentage DiscountType = "percentage"

	// DiscountFixed discounts a fixed amount, never exceeding the cart total.
	DiscountFixed DiscountType = "fixed"
)

// Coupon is a code entitling its holder to a discount, subject to validity
// and usage constraints. Codes are stored uppercase and matched
// case-insensitively.
type Coupon struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description"`
	DiscountType      DiscountType     `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchase       *decimal.Decimal `json:"min_purchase"`         // Optional minimum cart total.
	MaxDiscount       *decimal.Decimal `json:"max_discount"`         // Optional cap, percentage type only.
	UsageLimit        *int             `json:"usage_limit"`          // Optional global limit; nil or <=0 means unlimited.
	UsageLimitPerUser *int             `json:"usage_limit_per_user"` // Optional per-user limit.
	UsageCount        int              `json:"usage_count"`          // Running counter of successful applications.
	ValidFrom         time.Time        `json:"valid_from"`
	ValidUntil        *time.Time       `json:"valid_until"` // Optional expiry.
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// CheckValid reports whether the coupon may be applied to a cart with the
// given total by a user who has already used it userUsage times. The reason
// is a human-readable explanation for the first failing rule, empty when
// the coupon is valid. The rules run in a fixed order: active flag,
// validity window, minimum purchase, global usage limit, per-user limit.
func (c *Coupon) CheckValid(now time.Time, cartTotal decimal.Decimal, userUsage int) (bool, string) {
	if !c.IsActive {
		return false, "Coupon is not active"
	}

	if now.Before(c.ValidFrom) {
		return false, "Coupon is not yet valid"
	}

	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false, "Coupon has expired"
	}

	if c.MinPurchase != nil && cartTotal.LessThan(*c.MinPurchase) {
		return false, fmt.Sprintf("Minimum purchase of %s required", c.MinPurchase.StringFixed(2))
	}

	if c.UsageLimit != nil && *c.UsageLimit > 0 && c.UsageCount >= *c.UsageLimit {
		return false, "Coupon usage limit reached"
	}

	if c.UsageLimitPerUser != nil && *c.UsageLimitPerUser > 0 && userUsage >= *c.UsageLimitPerUser {
		return false, "You have already used this coupon"
	}

	return true, ""
}

// Discount computes the discount amount for the given cart total, rounded
// half-up to 2 decimal places. A fixed discount never exceeds the total,
// so the final amount can never go negative.
func (c *Coupon) Discount(cartTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.DiscountType {
	case DiscountPercentage:
		discount = cartTotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
		if discount.GreaterThan(cartTotal) {
			discount = cartTotal
		}
	}

	return discount.Round(2)
}

// CouponUsage is one append-only ledger entry recording a successful coupon
// application. A coupon is applied to an order exactly once; entries are
// never mutated or deleted.
type CouponUsage struct {
	ID              uuid.UUID       `json:"id"`
	CouponID        uuid.UUID       `json:"coupon_id"`
	UserID          uuid.UUID       `json:"user_id"`
	OrderID         uuid.UUID       `json:"order_id"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	UsedAt          time.Time       `json:"used_at"`
}
