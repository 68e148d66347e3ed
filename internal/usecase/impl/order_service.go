package impl

import (
	"context"
	"log/slog"

	"blitzshop/config"
	deliverycontext "blitzshop/internal/delivery/context"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/domain/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo  repository.OrderRepository
	authorizer service.Authorizer
	config     *config.Config
	logger     *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		orderRepo:  orderRepo,
		authorizer: authorizer,
		config:     cfg,
		logger:     logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListMyOrders returns a page of the actor's own orders, newest first.
func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, input usecase.ListOrdersInput) (*usecase.OrderListOutput, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	page, pageSize, offset := normalizePaging(srv.config, input.Page, input.PageSize)

	orders, total, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		UserID: userID,
		Status: input.Status,
	}, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderListOutput{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetOrder returns a single order with items. A customer asking for another
// user's order gets not-found rather than forbidden, so order IDs leak no
// existence information.
func (srv *orderService) GetOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error) {
	return srv.findVisibleOrder(ctx, actor, orderID)
}

// ListAllOrders returns a page of every user's orders.
func (srv *orderService) ListAllOrders(ctx context.Context, actor service.Actor, input usecase.ListOrdersInput) (*usecase.OrderListOutput, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "order"}); err != nil {
		return nil, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	page, pageSize, offset := normalizePaging(srv.config, input.Page, input.PageSize)

	orders, total, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		Status: input.Status,
	}, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderListOutput{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateStatus moves an order along its lifecycle. Forward skips are
// allowed; anything else is rejected.
func (srv *orderService) UpdateStatus(ctx context.Context, actor service.Actor, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "order"}); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails(
			string(order.Status) + " -> " + string(status),
		)
	}

	if err := srv.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status updated",
		slog.String("orderId", orderID.String()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)),
	)

	order.Status = status

	return order, nil
}

// CancelOrder cancels the actor's own order. Stock is not restored; the
// decrement at checkout is final.
func (srv *orderService) CancelOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findVisibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(entity.OrderStatusCancelled) {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails(
			string(order.Status) + " -> " + string(entity.OrderStatusCancelled),
		)
	}

	if err := srv.orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusCancelled); err != nil {
		return nil, errors.Wrap(err, "failed to cancel order")
	}

	srv.log(ctx).Info("Order cancelled",
		slog.String("orderId", orderID.String()),
		slog.String("userId", order.UserID.String()),
	)

	order.Status = entity.OrderStatusCancelled

	return order, nil
}

// findVisibleOrder loads an order and verifies the actor may read it.
func (srv *orderService) findVisibleOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionRead, service.Resource{Kind: "order", OwnerID: order.UserID}); err != nil {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}
