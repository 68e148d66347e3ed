package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// PaymentIntentOutput returns the gateway handle for a pending payment.
type PaymentIntentOutput struct {
	Order           *entity.Order
	PaymentIntentID string
}

// ConfirmPaymentOutput returns the settled order and its invoice.
type ConfirmPaymentOutput struct {
	Order   *entity.Order
	Invoice *entity.Invoice
}

// PaymentUsecase drives an order through payment against the configured
// gateway. Amounts are converted to integer minor units at this boundary.
type PaymentUsecase interface {
	// CreatePaymentIntent registers the order's final amount with the
	// gateway and stores the returned handle. The order must be pending
	// and belong to the actor.
	CreatePaymentIntent(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*PaymentIntentOutput, error)

	// ConfirmPayment polls the gateway for the charge result. On success
	// the order moves to paid and its invoice is issued in the same
	// transaction; on gateway failure the order stays pending.
	ConfirmPayment(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*ConfirmPaymentOutput, error)
}
