package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)

	return &d
}

func intPtr(n int) *int {
	return &n
}

func TestCoupon_Discount_Fixed(t *testing.T) {
	coupon := &Coupon{
		Code:          "SAVE5",
		DiscountType:  DiscountFixed,
		DiscountValue: dec("5.00"),
	}

	assert.True(t, coupon.Discount(dec("25.00")).Equal(dec("5.00")))

	// A fixed discount never exceeds the cart total.
	assert.True(t, coupon.Discount(dec("3.50")).Equal(dec("3.50")))
	assert.True(t, coupon.Discount(dec("0")).Equal(dec("0")))
}

func TestCoupon_Discount_Percentage(t *testing.T) {
	coupon := &Coupon{
		Code:          "WELCOME10",
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("10"),
	}

	assert.True(t, coupon.Discount(dec("25.00")).Equal(dec("2.50")))
}

func TestCoupon_Discount_PercentageCapped(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("50"),
		MaxDiscount:   decPtr("10.00"),
	}

	// 50% of 100.00 is 50.00, capped at 10.00.
	assert.True(t, coupon.Discount(dec("100.00")).Equal(dec("10.00")))

	// Below the cap the raw percentage applies.
	assert.True(t, coupon.Discount(dec("10.00")).Equal(dec("5.00")))
}

func TestCoupon_Discount_RoundsHalfUp(t *testing.T) {
	coupon := &Coupon{
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("15"),
	}

	// 15% of 10.03 = 1.5045 -> 1.50; 15% of 10.05 = 1.5075 -> 1.51.
	assert.Equal(t, "1.50", coupon.Discount(dec("10.03")).StringFixed(2))
	assert.Equal(t, "1.51", coupon.Discount(dec("10.05")).StringFixed(2))
}

func TestCoupon_CheckValid_Rules(t *testing.T) {
	now := time.Now()
	base := func() *Coupon {
		return &Coupon{
			Code:          "TEST",
			DiscountType:  DiscountFixed,
			DiscountValue: dec("5.00"),
			IsActive:      true,
			ValidFrom:     now.Add(-time.Hour),
		}
	}

	t.Run("valid", func(t *testing.T) {
		ok, reason := base().CheckValid(now, dec("25.00"), 0)
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("inactive", func(t *testing.T) {
		c := base()
		c.IsActive = false
		ok, reason := c.CheckValid(now, dec("25.00"), 0)
		assert.False(t, ok)
		assert.Equal(t, "Coupon is not active", reason)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := base()
		c.ValidFrom = now.Add(time.Hour)
		ok, reason := c.CheckValid(now, dec("25.00"), 0)
		assert.False(t, ok)
		assert.Equal(t, "Coupon is not yet valid", reason)
	})

	t.Run("expired", func(t *testing.T) {
		c := base()
		until := now.Add(-time.Minute)
		c.ValidUntil = &until
		ok, reason := c.CheckValid(now, dec("25.00"), 0)
		assert.False(t, ok)
		assert.Equal(t, "Coupon has expired", reason)
	})

	t.Run("below minimum purchase", func(t *testing.T) {
		c := base()
		c.MinPurchase = decPtr("20.00")
		ok, reason := c.CheckValid(now, dec("19.99"), 0)
		assert.False(t, ok)
		assert.Equal(t, "Minimum purchase of 20.00 required", reason)

		ok, _ = c.CheckValid(now, dec("20.00"), 0)
		assert.True(t, ok)
	})

	t.Run("global limit reached", func(t *testing.T) {
		c := base()
		c.UsageLimit = intPtr(1)
		c.UsageCount = 1
		ok, reason := c.CheckValid(now, dec("25.00"), 0)
		assert.False(t, ok)
		assert.Equal(t, "Coupon usage limit reached", reason)
	})

	t.Run("zero limit means unlimited", func(t *testing.T) {
		c := base()
		c.UsageLimit = intPtr(0)
		c.UsageCount = 100
		ok, _ := c.CheckValid(now, dec("25.00"), 0)
		assert.True(t, ok)
	})

	t.Run("per-user limit reached", func(t *testing.T) {
		c := base()
		c.UsageLimitPerUser = intPtr(1)
		ok, reason := c.CheckValid(now, dec("25.00"), 1)
		assert.False(t, ok)
		assert.Equal(t, "You have already used this coupon", reason)

		// Another user with no prior usage may still apply it.
		ok, _ = c.CheckValid(now, dec("25.00"), 0)
		assert.True(t, ok)
	})
}
