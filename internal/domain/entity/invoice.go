package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the billing document derived from an order once it is paid.
// Exactly one invoice exists per paid order.
type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Number         string          `json:"number"` // Human-facing number, e.g. INV-202608-000001.
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	IssuedAt       time.Time       `json:"issued_at"`
}
