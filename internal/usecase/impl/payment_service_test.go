package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"blitzshop/config"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/domain/service"
	mockRepo "blitzshop/internal/mocks/repository"
	mockSvc "blitzshop/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceMocks struct {
	orderRepo   *mockRepo.MockOrderRepository
	invoiceRepo *mockRepo.MockInvoiceRepository
	gateway     *mockSvc.MockPaymentGateway
	authorizer  *mockSvc.MockAuthorizer

	txOrderRepo   *mockRepo.MockOrderRepository
	txInvoiceRepo *mockRepo.MockInvoiceRepository
}

func newPaymentService(t *testing.T) (*paymentService, *paymentServiceMocks) {
	t.Helper()

	mocks := &paymentServiceMocks{
		orderRepo:     mockRepo.NewMockOrderRepository(t),
		invoiceRepo:   mockRepo.NewMockInvoiceRepository(t),
		gateway:       mockSvc.NewMockPaymentGateway(t),
		authorizer:    mockSvc.NewMockAuthorizer(t),
		txOrderRepo:   mockRepo.NewMockOrderRepository(t),
		txInvoiceRepo: mockRepo.NewMockInvoiceRepository(t),
	}

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().NewOrderRepository().Return(mocks.txOrderRepo).Maybe()
	factory.EXPECT().NewInvoiceRepository().Return(mocks.txInvoiceRepo).Maybe()

	txManager := mockRepo.NewMockTransactionManager(t)
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Maybe()

	svc := NewPaymentService(txManager, mocks.orderRepo, mocks.invoiceRepo, mocks.gateway, mocks.authorizer, &config.Config{}, slog.Default())

	return svc.(*paymentService), mocks
}

func TestPaymentService_CreatePaymentIntent_Success(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{
		ID:          orderID,
		UserID:      actor.UserID,
		Status:      entity.OrderStatusPending,
		FinalAmount: decimal.RequireFromString("180.00"),
	}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.gateway.EXPECT().
		CreateCharge(ctx, int64(18000), "usd", mock.Anything).
		Return("ch_test_123", nil)
	mocks.orderRepo.EXPECT().SetPaymentIntent(ctx, orderID, "ch_test_123").Return(nil)

	output, err := svc.CreatePaymentIntent(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, "ch_test_123", output.PaymentIntentID)
	assert.Equal(t, "ch_test_123", output.Order.PaymentIntentID)
}

func TestPaymentService_CreatePaymentIntent_NonPendingOrder(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusCancelled}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	output, err := svc.CreatePaymentIntent(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
	assertErrorCode(t, err, "ORDER_NOT_PAYABLE")
}

func TestPaymentService_CreatePaymentIntent_ForeignOrderHidden(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	output, err := svc.CreatePaymentIntent(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestPaymentService_ConfirmPayment_IssuesInvoice(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{
		ID:              orderID,
		UserID:          actor.UserID,
		Status:          entity.OrderStatusPending,
		PaymentIntentID: "ch_test_123",
		TotalAmount:     decimal.RequireFromString("200.00"),
		DiscountAmount:  decimal.RequireFromString("20.00"),
		FinalAmount:     decimal.RequireFromString("180.00"),
	}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.gateway.EXPECT().GetStatus(ctx, "ch_test_123").Return(service.ChargeStatusSucceeded, nil)
	mocks.txOrderRepo.EXPECT().UpdateStatus(ctx, orderID, entity.OrderStatusPaid).Return(nil)
	mocks.txInvoiceRepo.EXPECT().
		CountIssuedSince(ctx, mock.AnythingOfType("time.Time")).
		Return(41, nil)
	mocks.txInvoiceRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Invoice")).
		Run(func(ctx context.Context, invoice *entity.Invoice) {
			invoice.ID = uuid.New()
		}).
		Return(nil)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, output.Order.Status)
	require.NotNil(t, output.Invoice)
	assert.Equal(t, orderID, output.Invoice.OrderID)
	// Sequence restarts monthly; with 41 already issued the next is 42.
	expected := "INV-" + time.Now().Format("200601") + "-000042"
	assert.Equal(t, expected, output.Invoice.Number)
	assert.True(t, output.Invoice.FinalAmount.Equal(order.FinalAmount))
}

func TestPaymentService_ConfirmPayment_AlreadyPaidIsIdempotent(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusPaid}
	invoice := &entity.Invoice{ID: uuid.New(), OrderID: orderID, UserID: actor.UserID, Number: "INV-202608-000007"}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.invoiceRepo.EXPECT().FindByOrderID(ctx, orderID).Return(invoice, nil)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, invoice, output.Invoice)
	assert.Equal(t, entity.OrderStatusPaid, output.Order.Status)
}

func TestPaymentService_ConfirmPayment_FailedChargeCancelsOrder(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{
		ID:              orderID,
		UserID:          actor.UserID,
		Status:          entity.OrderStatusPending,
		PaymentIntentID: "ch_test_456",
		FinalAmount:     decimal.RequireFromString("50.00"),
	}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.gateway.EXPECT().GetStatus(ctx, "ch_test_456").Return(service.ChargeStatusFailed, nil)
	mocks.orderRepo.EXPECT().UpdateStatus(ctx, orderID, entity.OrderStatusCancelled).Return(nil)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
	assertErrorCode(t, err, "PAYMENT_FAILED")
	// A definitively failed charge releases the order.
	assert.Equal(t, entity.OrderStatusCancelled, order.Status)
}

func TestPaymentService_ConfirmPayment_SettlingChargeKeepsOrderPending(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{
		ID:              orderID,
		UserID:          actor.UserID,
		Status:          entity.OrderStatusPending,
		PaymentIntentID: "ch_test_654",
		FinalAmount:     decimal.RequireFromString("50.00"),
	}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.gateway.EXPECT().GetStatus(ctx, "ch_test_654").Return(service.ChargeStatusPending, nil)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
	assertErrorCode(t, err, "PAYMENT_FAILED")
	// Still settling at the gateway, so the order stays pending.
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestPaymentService_ConfirmPayment_WithoutIntent(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: actor.UserID, Status: entity.OrderStatusPending}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
	assertErrorCode(t, err, "ORDER_NOT_PAYABLE")
}

func TestPaymentService_ConfirmPayment_InvoiceCreateFailureRollsBack(t *testing.T) {
	svc, mocks := newPaymentService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	order := &entity.Order{
		ID:              orderID,
		UserID:          actor.UserID,
		Status:          entity.OrderStatusPending,
		PaymentIntentID: "ch_test_789",
		FinalAmount:     decimal.RequireFromString("75.00"),
	}

	mocks.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)
	mocks.authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)
	mocks.gateway.EXPECT().GetStatus(ctx, "ch_test_789").Return(service.ChargeStatusSucceeded, nil)
	mocks.txOrderRepo.EXPECT().UpdateStatus(ctx, orderID, entity.OrderStatusPaid).Return(nil)
	mocks.txInvoiceRepo.EXPECT().
		CountIssuedSince(ctx, mock.AnythingOfType("time.Time")).
		Return(0, nil)
	mocks.txInvoiceRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Invoice")).
		Return(repository.ErrDuplicateInvoice)

	output, err := svc.ConfirmPayment(ctx, actor, orderID)
	require.Error(t, err)
	assert.Nil(t, output)
}

func TestToMinorUnits(t *testing.T) {
	assert.EqualValues(t, 18000, toMinorUnits(decimal.RequireFromString("180.00")))
	assert.EqualValues(t, 999, toMinorUnits(decimal.RequireFromString("9.99")))
	assert.EqualValues(t, 0, toMinorUnits(decimal.Zero))
}
