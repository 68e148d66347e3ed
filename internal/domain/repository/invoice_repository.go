package repository

import (
	"context"
	"time"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for invoice persistence.
var (
	// ErrInvoiceNotFound is returned when an invoice is not found.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrDuplicateInvoice is returned when an invoice already exists for the order.
	ErrDuplicateInvoice = errors.New("invoice already exists for order")
)

// InvoiceRepository defines the interface for invoice persistence.
type InvoiceRepository interface {
	// Create persists a new invoice. At most one invoice exists per order.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// FindByID retrieves an invoice by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)

	// FindByOrderID retrieves the invoice issued for an order.
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error)

	// ListByUser retrieves a page of a user's invoices, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Invoice, int64, error)

	// CountIssuedSince counts invoices issued at or after the given instant.
	// Used to derive the per-month sequence part of invoice numbers.
	CountIssuedSince(ctx context.Context, since time.Time) (int64, error)
}
