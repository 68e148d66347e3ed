package impl

import (
	"context"
	"log/slog"
	"testing"

	"blitzshop/config"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	mockRepo "blitzshop/internal/mocks/repository"
	mockSvc "blitzshop/internal/mocks/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*orderService, *mockRepo.MockOrderRepository, *mockSvc.MockAuthorizer) {
	t.Helper()

	orderRepo := mockRepo.NewMockOrderRepository(t)
	authorizer := mockSvc.NewMockAuthorizer(t)
	service := NewOrderService(orderRepo, authorizer, &config.Config{}, slog.Default())

	return service.(*orderService), orderRepo, authorizer
}

func TestOrderService_GetOrder_OwnOrder(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusPending}

	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	got, err := service.GetOrder(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, got.ID)
}

func TestOrderService_GetOrder_ForeignOrderHiddenAsNotFound(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPaid}

	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	got, err := service.GetOrder(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, got)
	// Existence of foreign orders must not leak through the error.
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_ListMyOrders_RejectsUnknownStatus(t *testing.T) {
	service, _, _ := newOrderService(t)

	output, err := service.ListMyOrders(context.Background(), uuid.New(), usecase.ListOrdersInput{
		Status: entity.OrderStatus("misplaced"),
	})
	require.Error(t, err)
	assert.Nil(t, output)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestOrderService_UpdateStatus_ForwardTransition(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	admin := adminActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPaid}

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	orderRepo.EXPECT().UpdateStatus(ctx, orderID, entity.OrderStatusShipped).Return(nil)

	got, err := service.UpdateStatus(ctx, admin, orderID, entity.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, got.Status)
}

func TestOrderService_UpdateStatus_BackwardTransitionRejected(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	admin := adminActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusShipped}

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)

	got, err := service.UpdateStatus(ctx, admin, orderID, entity.OrderStatusPaid)
	require.Error(t, err)
	assert.Nil(t, got)
	assertErrorCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestOrderService_UpdateStatus_TerminalStateRejected(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	admin := adminActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusCancelled}

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)

	got, err := service.UpdateStatus(ctx, admin, orderID, entity.OrderStatusProcessing)
	require.Error(t, err)
	assert.Nil(t, got)
	assertErrorCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	service, _, authorizer := newOrderService(t)

	admin := adminActor()
	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)

	got, err := service.UpdateStatus(context.Background(), admin, uuid.New(), entity.OrderStatus("lost"))
	require.Error(t, err)
	assert.Nil(t, got)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestOrderService_CancelOrder_PendingOrder(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusPending}

	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	orderRepo.EXPECT().UpdateStatus(ctx, orderID, entity.OrderStatusCancelled).Return(nil)

	got, err := service.CancelOrder(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
}

func TestOrderService_CancelOrder_ShippedOrderRejected(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusShipped}

	orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	got, err := service.CancelOrder(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, got)
	assertErrorCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestOrderService_ListAllOrders_RequiresManage(t *testing.T) {
	service, _, authorizer := newOrderService(t)

	customer := customerActor()
	authorizer.EXPECT().Authorize(customer, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	output, err := service.ListAllOrders(context.Background(), customer, usecase.ListOrdersInput{})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_ListAllOrders_FiltersByStatus(t *testing.T) {
	service, orderRepo, authorizer := newOrderService(t)

	ctx := context.Background()
	admin := adminActor()

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	orderRepo.EXPECT().
		List(ctx, repository.OrderFilter{Status: entity.OrderStatusPaid}, 0, 20).
		Return([]*entity.Order{{ID: uuid.New(), Status: entity.OrderStatusPaid}}, 1, nil)

	output, err := service.ListAllOrders(ctx, admin, usecase.ListOrdersInput{Status: entity.OrderStatusPaid})
	require.NoError(t, err)
	assert.Len(t, output.Orders, 1)
	assert.EqualValues(t, 1, output.Total)
}
