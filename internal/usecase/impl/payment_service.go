package impl

import (
	"context"
	"log/slog"
	"time"

	"blitzshop/config"
	deliverycontext "blitzshop/internal/delivery/context"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/domain/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "usd"

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	invoiceRepo repository.InvoiceRepository
	gateway     service.PaymentGateway
	authorizer  service.Authorizer
	currency    string
	logger      *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(
	txManager repository.TransactionManager,
	orderRepo repository.OrderRepository,
	invoiceRepo repository.InvoiceRepository,
	gateway service.PaymentGateway,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.PaymentUsecase {
	currency := defaultCurrency
	if cfg != nil && cfg.Payment != nil && cfg.Payment.Currency != "" {
		currency = cfg.Payment.Currency
	}

	return &paymentService{
		txManager:   txManager,
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		gateway:     gateway,
		authorizer:  authorizer,
		currency:    currency,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePaymentIntent registers the order's final amount with the gateway
// and stores the returned handle on the order. Calling it again for a still
// pending order replaces the handle.
func (srv *paymentService) CreatePaymentIntent(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*usecase.PaymentIntentOutput, error) {
	order, err := srv.findOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrOrderNotPayable.WithDetails(string(order.Status))
	}

	handle, err := srv.gateway.CreateCharge(ctx, toMinorUnits(order.FinalAmount), srv.currency, map[string]string{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create charge")
	}

	if err := srv.orderRepo.SetPaymentIntent(ctx, order.ID, handle); err != nil {
		return nil, errors.Wrap(err, "failed to store payment intent")
	}
	order.PaymentIntentID = handle

	srv.log(ctx).Info("Payment intent created",
		slog.String("orderId", order.ID.String()),
		slog.String("paymentIntentId", handle),
		slog.String("amount", order.FinalAmount.StringFixed(2)),
	)

	return &usecase.PaymentIntentOutput{
		Order:           order,
		PaymentIntentID: handle,
	}, nil
}

// ConfirmPayment polls the gateway for the charge result. On success the
// order moves to paid and its invoice is issued in the same transaction.
// Confirming an already paid order is idempotent and returns the existing
// invoice.
func (srv *paymentService) ConfirmPayment(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*usecase.ConfirmPaymentOutput, error) {
	order, err := srv.findOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.OrderStatusPaid {
		invoice, err := srv.invoiceRepo.FindByOrderID(ctx, order.ID)
		if err != nil && !errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, errors.Wrap(err, "failed to find invoice")
		}

		return &usecase.ConfirmPaymentOutput{Order: order, Invoice: invoice}, nil
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrOrderNotPayable.WithDetails(string(order.Status))
	}
	if order.PaymentIntentID == "" {
		return nil, domainerrors.ErrOrderNotPayable.WithDetails("no payment intent")
	}

	status, err := srv.gateway.GetStatus(ctx, order.PaymentIntentID)
	if err != nil {
		if errors.Is(err, service.ErrChargeNotFound) {
			return nil, domainerrors.ErrOrderNotPayable.WithDetails("unknown payment intent")
		}

		return nil, errors.Wrap(err, "failed to get charge status")
	}
	if status == service.ChargeStatusFailed {
		// A definitively failed charge releases the order.
		if err := srv.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled); err != nil {
			return nil, errors.Wrap(err, "failed to cancel order after failed charge")
		}
		order.Status = entity.OrderStatusCancelled

		srv.log(ctx).Warn("Payment failed, order cancelled",
			slog.String("orderId", order.ID.String()),
			slog.String("paymentIntentId", order.PaymentIntentID),
		)

		return nil, domainerrors.ErrPaymentFailed.WithDetails(string(status))
	}
	if status != service.ChargeStatusSucceeded {
		// Still settling at the gateway; the order stays pending.
		return nil, domainerrors.ErrPaymentFailed.WithDetails(string(status))
	}

	var invoice *entity.Invoice
	err = srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		orderRepo := f.NewOrderRepository()
		invoiceRepo := f.NewInvoiceRepository()

		if err := orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid); err != nil {
			return errors.Wrap(err, "failed to mark order paid")
		}

		now := time.Now()
		number, err := nextInvoiceNumber(ctx, invoiceRepo, now)
		if err != nil {
			return err
		}

		invoice = &entity.Invoice{
			OrderID:        order.ID,
			UserID:         order.UserID,
			Number:         number,
			TotalAmount:    order.TotalAmount,
			DiscountAmount: order.DiscountAmount,
			FinalAmount:    order.FinalAmount,
			IssuedAt:       now,
		}
		if err := invoiceRepo.Create(ctx, invoice); err != nil {
			return errors.Wrap(err, "failed to create invoice")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusPaid

	srv.log(ctx).Info("Payment confirmed",
		slog.String("orderId", order.ID.String()),
		slog.String("invoiceNumber", invoice.Number),
	)

	return &usecase.ConfirmPaymentOutput{
		Order:   order,
		Invoice: invoice,
	}, nil
}

// findOwnedOrder loads an order and verifies the actor may act on it.
func (srv *paymentService) findOwnedOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionWrite, service.Resource{Kind: "order", OwnerID: order.UserID}); err != nil {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

// toMinorUnits converts a 2-decimal amount to integer minor units (cents).
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
