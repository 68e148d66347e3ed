package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// ListOrdersInput defines the filters and paging for an order listing.
type ListOrdersInput struct {
	Status   entity.OrderStatus // Empty means any status.
	Page     int
	PageSize int
}

// OrderListOutput returns one page of orders.
type OrderListOutput struct {
	Orders   []*entity.Order
	Total    int64
	Page     int
	PageSize int
}

// OrderUsecase defines the interface for order retrieval and lifecycle
// operations after checkout.
type OrderUsecase interface {
	// ListMyOrders returns a page of the actor's own orders, newest first.
	ListMyOrders(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderListOutput, error)

	// GetOrder returns a single order with items. Customers see only
	// their own orders; admins see all.
	GetOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error)

	// ListAllOrders returns a page of every user's orders. Admin only.
	ListAllOrders(ctx context.Context, actor service.Actor, input ListOrdersInput) (*OrderListOutput, error)

	// UpdateStatus moves an order along its lifecycle. Admin only; the
	// transition must be legal for the order's current status.
	UpdateStatus(ctx context.Context, actor service.Actor, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// CancelOrder cancels the actor's own order. Only pending and paid
	// orders can be cancelled; stock is not restored.
	CancelOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error)
}
