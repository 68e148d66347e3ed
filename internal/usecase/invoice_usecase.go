package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// InvoiceListOutput returns one page of invoices.
type InvoiceListOutput struct {
	Invoices []*entity.Invoice
	Total    int64
	Page     int
	PageSize int
}

// InvoiceUsecase defines the interface for reading invoices. Invoices are
// issued by the payment flow; nothing here creates or mutates them.
type InvoiceUsecase interface {
	// GetInvoice returns a single invoice. Customers see only their own
	// invoices; admins see all.
	GetInvoice(ctx context.Context, actor service.Actor, invoiceID uuid.UUID) (*entity.Invoice, error)

	// GetInvoiceByOrder returns the invoice issued for an order, with the
	// same visibility rules.
	GetInvoiceByOrder(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*entity.Invoice, error)

	// ListMyInvoices returns a page of the actor's own invoices, newest first.
	ListMyInvoices(ctx context.Context, userID uuid.UUID, page, pageSize int) (*InvoiceListOutput, error)
}
