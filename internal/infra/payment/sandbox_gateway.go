// Package payment provides the payment gateway adapter implementations.
package payment

import (
	"context"
	"log/slog"
	"sync"

	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// charge is the sandbox-side record of a created charge.
type charge struct {
	amountMinor int64
	currency    string
	metadata    map[string]string
	status      service.ChargeStatus
}

// sandboxGateway is an in-process PaymentGateway used in development and
// tests. Charges are held in memory and auto-approve on the first status
// poll, mimicking a provider that settles asynchronously.
type sandboxGateway struct {
	mu      sync.Mutex
	charges map[string]*charge
	logger  *slog.Logger
}

// NewSandboxGateway is the constructor for sandboxGateway.
func NewSandboxGateway(logger *slog.Logger) service.PaymentGateway {
	return &sandboxGateway{
		charges: make(map[string]*charge),
		logger:  logger,
	}
}

// CreateCharge registers a charge and returns its handle.
func (g *sandboxGateway) CreateCharge(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (string, error) {
	handle := "ch_" + uuid.NewString()

	g.mu.Lock()
	g.charges[handle] = &charge{
		amountMinor: amountMinor,
		currency:    currency,
		metadata:    metadata,
		status:      service.ChargeStatusPending,
	}
	g.mu.Unlock()

	g.logger.Info("sandbox charge created",
		slog.String("handle", handle),
		slog.Int64("amountMinor", amountMinor),
		slog.String("currency", currency),
	)

	return handle, nil
}

// GetStatus reports the charge status. A pending sandbox charge settles as
// succeeded on its first poll.
func (g *sandboxGateway) GetStatus(_ context.Context, handle string) (service.ChargeStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.charges[handle]
	if !ok {
		return "", service.ErrChargeNotFound
	}

	if ch.status == service.ChargeStatusPending {
		ch.status = service.ChargeStatusSucceeded
	}

	return ch.status, nil
}
