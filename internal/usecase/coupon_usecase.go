package usecase

import (
	"context"
	"time"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// CreateCouponInput defines the data required to create a coupon.
type CreateCouponInput struct {
	Code              string
	Description       string
	DiscountType      entity.DiscountType
	DiscountValue     decimal.Decimal
	MinPurchase       *decimal.Decimal
	MaxDiscount       *decimal.Decimal
	UsageLimit        *int
	UsageLimitPerUser *int
	ValidFrom         time.Time
	ValidUntil        *time.Time
	IsActive          bool
}

// UpdateCouponInput defines the data for a coupon update. Nil fields are
// left unchanged; the code itself is immutable.
type UpdateCouponInput struct {
	Description       *string
	DiscountValue     *decimal.Decimal
	MinPurchase       *decimal.Decimal
	MaxDiscount       *decimal.Decimal
	UsageLimit        *int
	UsageLimitPerUser *int
	ValidUntil        *time.Time
	IsActive          *bool
}

// --- Output DTOs ---

// CouponValidationOutput is the dry-run result of applying a coupon to the
// user's current cart.
type CouponValidationOutput struct {
	Valid       bool
	Reason      string // Empty when valid.
	Coupon      *entity.Coupon
	CartTotal   decimal.Decimal
	Discount    decimal.Decimal
	FinalAmount decimal.Decimal
}

// CouponListOutput returns one page of coupons.
type CouponListOutput struct {
	Coupons  []*entity.Coupon
	Total    int64
	Page     int
	PageSize int
}

// CouponUsecase defines the interface for coupon operations: the customer
// validation surface and the admin management surface.
type CouponUsecase interface {
	// ValidateCoupon checks a code against the user's current cart without
	// consuming a use. The result carries the computed discount so the
	// storefront can show the final amount before checkout.
	ValidateCoupon(ctx context.Context, userID uuid.UUID, code string) (*CouponValidationOutput, error)

	// CreateCoupon creates a coupon. Admin only.
	CreateCoupon(ctx context.Context, actor service.Actor, input CreateCouponInput) (*entity.Coupon, error)

	// UpdateCoupon modifies a coupon's configuration. Admin only.
	UpdateCoupon(ctx context.Context, actor service.Actor, couponID uuid.UUID, input UpdateCouponInput) (*entity.Coupon, error)

	// ListCoupons returns a page of all coupons. Admin only.
	ListCoupons(ctx context.Context, actor service.Actor, page, pageSize int) (*CouponListOutput, error)

	// GetCoupon returns a single coupon by ID. Admin only.
	GetCoupon(ctx context.Context, actor service.Actor, couponID uuid.UUID) (*entity.Coupon, error)
}
