package impl

import (
	"context"
	"fmt"
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
)

// nextInvoiceNumber derives the next human-facing invoice number,
// INV-YYYYMM-NNNNNN, where the sequence restarts every month. Callers must
// hold a transaction so two confirmations cannot draw the same number.
func nextInvoiceNumber(ctx context.Context, invoiceRepo repository.InvoiceRepository, now time.Time) (string, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	issued, err := invoiceRepo.CountIssuedSince(ctx, monthStart)
	if err != nil {
		return "", errors.Wrap(err, "failed to count invoices for numbering")
	}

	return fmt.Sprintf("INV-%s-%06d", now.Format("200601"), issued+1), nil
}

// invoiceService implements the InvoiceUsecase interface.
type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	authorizer  service.Authorizer
	config      *config.Config
	logger      *slog.Logger
}

// NewInvoiceService is the constructor for invoiceService.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.InvoiceUsecase {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		authorizer:  authorizer,
		config:      cfg,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *invoiceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetInvoice returns a single invoice, hidden from non-owners.
func (srv *invoiceService) GetInvoice(ctx context.Context, actor service.Actor, invoiceID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := srv.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, domainerrors.ErrInvoiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find invoice")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionRead, service.Resource{Kind: "invoice", OwnerID: invoice.UserID}); err != nil {
		return nil, domainerrors.ErrInvoiceNotFound
	}

	return invoice, nil
}

// GetInvoiceByOrder returns the invoice issued for an order.
func (srv *invoiceService) GetInvoiceByOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := srv.invoiceRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, domainerrors.ErrInvoiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find invoice by order")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionRead, service.Resource{Kind: "invoice", OwnerID: invoice.UserID}); err != nil {
		return nil, domainerrors.ErrInvoiceNotFound
	}

	return invoice, nil
}

// ListMyInvoices returns a page of the actor's own invoices, newest first.
func (srv *invoiceService) ListMyInvoices(ctx context.Context, userID uuid.UUID, page, pageSize int) (*usecase.InvoiceListOutput, error) {
	page, pageSize, offset := normalizePaging(srv.config, page, pageSize)

	invoices, total, err := srv.invoiceRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invoices")
	}

	return &usecase.InvoiceListOutput{
		Invoices: invoices,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
