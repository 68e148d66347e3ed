package repository

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID uuid.UUID          // Zero value means all users (admin listings).
	Status entity.OrderStatus // Empty means any status.
}

// OrderRepository defines the interface for order persistence. Orders and
// their items are created together in one multi-row insert; items are never
// written again afterwards.
type OrderRepository interface {
	// Create persists an order together with all of its items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List retrieves a page of orders matching the filter, newest first,
	// items included, with the total count.
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]*entity.Order, int64, error)

	// UpdateStatus sets the order's status. Transition legality is the
	// service layer's concern.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// SetPaymentIntent stores the external payment handle on the order.
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}
