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
	mockRepo "blitzshop/internal/mocks/repository"
	mockSvc "blitzshop/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInvoiceService(t *testing.T) (*invoiceService, *mockRepo.MockInvoiceRepository, *mockSvc.MockAuthorizer) {
	t.Helper()

	invoiceRepo := mockRepo.NewMockInvoiceRepository(t)
	authorizer := mockSvc.NewMockAuthorizer(t)
	svc := NewInvoiceService(invoiceRepo, authorizer, &config.Config{}, slog.Default())

	return svc.(*invoiceService), invoiceRepo, authorizer
}

func TestInvoiceService_GetInvoice_OwnInvoice(t *testing.T) {
	service, invoiceRepo, authorizer := newInvoiceService(t)

	ctx := context.Background()
	actor := customerActor()
	invoiceID := uuid.New()
	invoice := &entity.Invoice{ID: invoiceID, UserID: actor.UserID, Number: "INV-202608-000003"}

	invoiceRepo.EXPECT().FindByID(ctx, invoiceID).Return(invoice, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	got, err := service.GetInvoice(ctx, actor, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, invoice, got)
}

func TestInvoiceService_GetInvoice_ForeignInvoiceHidden(t *testing.T) {
	service, invoiceRepo, authorizer := newInvoiceService(t)

	ctx := context.Background()
	actor := customerActor()
	invoiceID := uuid.New()
	invoice := &entity.Invoice{ID: invoiceID, UserID: uuid.New()}

	invoiceRepo.EXPECT().FindByID(ctx, invoiceID).Return(invoice, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	got, err := service.GetInvoice(ctx, actor, invoiceID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvoiceNotFound)
}

func TestInvoiceService_GetInvoiceByOrder(t *testing.T) {
	service, invoiceRepo, authorizer := newInvoiceService(t)

	ctx := context.Background()
	actor := customerActor()
	orderID := uuid.New()
	invoice := &entity.Invoice{ID: uuid.New(), OrderID: orderID, UserID: actor.UserID}

	invoiceRepo.EXPECT().FindByOrderID(ctx, orderID).Return(invoice, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(nil)

	got, err := service.GetInvoiceByOrder(ctx, actor, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, got.OrderID)
}

func TestInvoiceService_GetInvoiceByOrder_UnpaidOrderHasNone(t *testing.T) {
	service, invoiceRepo, _ := newInvoiceService(t)

	ctx := context.Background()
	orderID := uuid.New()

	invoiceRepo.EXPECT().FindByOrderID(ctx, orderID).Return(nil, repository.ErrInvoiceNotFound)

	got, err := service.GetInvoiceByOrder(ctx, customerActor(), orderID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvoiceNotFound)
}

func TestInvoiceService_ListMyInvoices(t *testing.T) {
	service, invoiceRepo, _ := newInvoiceService(t)

	ctx := context.Background()
	userID := uuid.New()

	invoiceRepo.EXPECT().
		ListByUser(ctx, userID, 0, 20).
		Return([]*entity.Invoice{{ID: uuid.New(), UserID: userID}}, 1, nil)

	output, err := service.ListMyInvoices(ctx, userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, output.Invoices, 1)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 20, output.PageSize)
}

func TestNextInvoiceNumber(t *testing.T) {
	invoiceRepo := mockRepo.NewMockInvoiceRepository(t)

	ctx := context.Background()
	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	invoiceRepo.EXPECT().CountIssuedSince(ctx, monthStart).Return(7, nil)

	number, err := nextInvoiceNumber(ctx, invoiceRepo, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-000008", number)
}
