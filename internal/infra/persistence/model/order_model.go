package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          string          `gorm:"size:50;not null;default:'pending';index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CouponCode      string          `gorm:"size:50"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentIntentID string          `gorm:"size:200"`
	ShippingAddress string          `gorm:"type:text"`
	BillingAddress  string          `gorm:"type:text"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM-specific struct for the 'order_items' table.
// Rows are written once at checkout and never updated; name, image and unit
// price are snapshots, deliberately denormalized from the product.
type OrderItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int             `gorm:"not null;check:quantity > 0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ProductName     string          `gorm:"size:200;not null"`
	ProductImageURL string          `gorm:"size:500"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
