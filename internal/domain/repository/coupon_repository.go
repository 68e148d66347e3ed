package repository

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for coupon persistence.
var (
	// ErrCouponNotFound is returned when a coupon is not found.
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrDuplicateCoupon is returned when creating a coupon whose code already exists.
	ErrDuplicateCoupon = errors.New("coupon code already exists")
	// ErrCouponExhausted is returned when an atomic usage-count increment
	// fails because the global usage limit has been reached.
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	// ErrDuplicateCouponUsage is returned when recording a usage entry for a
	// (coupon, order) pair that already has one.
	ErrDuplicateCouponUsage = errors.New("coupon already applied to order")
)

// CouponRepository defines the interface for coupon persistence and the
// append-only usage ledger.
type CouponRepository interface {
	// FindByCode retrieves a coupon by code, case-insensitively.
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)

	// FindByID retrieves a coupon by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)

	// List retrieves a page of coupons, newest first, with the total count.
	List(ctx context.Context, offset, limit int) ([]*entity.Coupon, int64, error)

	// Create persists a new coupon.
	Create(ctx context.Context, coupon *entity.Coupon) error

	// Update modifies an existing coupon's configuration. The usage counter
	// is excluded; it only moves through IncrementUsage.
	Update(ctx context.Context, coupon *entity.Coupon) error

	// CountUsageByUser returns how many times a user has successfully
	// applied the coupon, read from the usage ledger.
	CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error)

	// HasUsageForOrder reports whether the coupon has already been applied
	// to the given order.
	HasUsageForOrder(ctx context.Context, couponID, orderID uuid.UUID) (bool, error)

	// RecordUsage appends one entry to the usage ledger. Entries are never
	// mutated or deleted; a second entry for the same (coupon, order) pair
	// returns ErrDuplicateCouponUsage.
	RecordUsage(ctx context.Context, usage *entity.CouponUsage) error

	// IncrementUsage atomically bumps the coupon's global usage counter.
	// The update is conditional on the usage limit not being exhausted, so
	// two concurrent checkouts cannot both consume the last remaining use;
	// when the condition fails it returns ErrCouponExhausted.
	IncrementUsage(ctx context.Context, couponID uuid.UUID) error
}
