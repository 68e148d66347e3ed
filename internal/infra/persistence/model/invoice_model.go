package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the GORM-specific struct for the 'invoices' table.
type InvoiceModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number         string          `gorm:"size:30;not null;uniqueIndex"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IssuedAt       time.Time       `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (InvoiceModel) TableName() string {
	return "invoices"
}
