package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponModel is the GORM-specific struct for the 'coupons' table.
// Codes are stored uppercase; lookups compare case-insensitively.
type CouponModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code              string           `gorm:"size:50;not null;uniqueIndex"`
	Description       string           `gorm:"size:200"`
	DiscountType      string           `gorm:"size:20;not null"`
	DiscountValue     decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	MinPurchase       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	MaxDiscount       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	UsageLimit        *int
	UsageLimitPerUser *int
	UsageCount        int `gorm:"not null;default:0"`
	ValidFrom         time.Time
	ValidUntil        *time.Time
	IsActive          bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (CouponModel) TableName() string {
	return "coupons"
}

// CouponUsageModel is the GORM-specific struct for the 'coupon_usage' table,
// the append-only ledger of successful coupon applications. The composite
// unique index guarantees a coupon is applied to an order exactly once.
type CouponUsageModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CouponID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order;index:idx_coupon_user"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_coupon_user"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UsedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (CouponUsageModel) TableName() string {
	return "coupon_usage"
}
