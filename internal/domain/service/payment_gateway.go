package service

import (
	"context"

	"blitzshop/internal/errors"
)

// ChargeStatus is the gateway-side state of a charge.
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusSucceeded ChargeStatus = "succeeded"
	ChargeStatusFailed    ChargeStatus = "failed"
)

// ErrChargeNotFound is returned when the gateway does not know the handle.
var ErrChargeNotFound = errors.New("charge not found")

// PaymentGateway is the boundary to the external payment provider. Amounts
// cross this boundary in integer minor units (cents); no money arithmetic
// happens on the far side.
type PaymentGateway interface {
	// CreateCharge registers a charge for the given amount and returns an
	// opaque handle that identifies it at the provider.
	CreateCharge(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (handle string, err error)

	// GetStatus reports the provider-side status of a previously created charge.
	GetStatus(ctx context.Context, handle string) (ChargeStatus, error)
}
