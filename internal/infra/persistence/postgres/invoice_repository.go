package postgres

import (
	"context"
	"time"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// invoiceRepository implements the repository.InvoiceRepository interface.
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository is the constructor for invoiceRepository.
func NewInvoiceRepository(db *gorm.DB) repository.InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

// Create persists a new invoice. The unique index on order_id enforces at
// most one invoice per order.
func (repo *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	invoiceM := fromInvoiceDomain(invoice)

	if err := repo.db.WithContext(ctx).Create(invoiceM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateInvoice
		}

		return errors.Wrap(err, "failed to create invoice")
	}

	invoice.ID = invoiceM.ID

	return nil
}

// FindByID retrieves an invoice by its unique ID.
func (repo *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoiceM model.InvoiceModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invoiceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInvoiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find invoice by ID")
	}

	return toInvoiceDomain(&invoiceM), nil
}

// FindByOrderID retrieves the invoice issued for an order.
func (repo *invoiceRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error) {
	var invoiceM model.InvoiceModel

	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&invoiceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInvoiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find invoice by order ID")
	}

	return toInvoiceDomain(&invoiceM), nil
}

// ListByUser retrieves a page of a user's invoices, newest first.
func (repo *invoiceRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Invoice, int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.InvoiceModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count invoices")
	}

	var invoiceModels []*model.InvoiceModel
	if err := query.
		Order("issued_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list invoices by user")
	}

	invoices := make([]*entity.Invoice, 0, len(invoiceModels))
	for _, invoiceM := range invoiceModels {
		invoices = append(invoices, toInvoiceDomain(invoiceM))
	}

	return invoices, total, nil
}

// CountIssuedSince counts invoices issued at or after the given instant.
func (repo *invoiceRepository) CountIssuedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.InvoiceModel{}).
		Where("issued_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count invoices issued since")
	}

	return count, nil
}

// toInvoiceDomain maps the persistence model to a pure domain entity.
func toInvoiceDomain(invoiceM *model.InvoiceModel) *entity.Invoice {
	return &entity.Invoice{
		ID:             invoiceM.ID,
		OrderID:        invoiceM.OrderID,
		UserID:         invoiceM.UserID,
		Number:         invoiceM.Number,
		TotalAmount:    invoiceM.TotalAmount,
		DiscountAmount: invoiceM.DiscountAmount,
		FinalAmount:    invoiceM.FinalAmount,
		IssuedAt:       invoiceM.IssuedAt,
	}
}

// fromInvoiceDomain maps a domain entity to the persistence model.
func fromInvoiceDomain(invoice *entity.Invoice) *model.InvoiceModel {
	return &model.InvoiceModel{
		ID:             invoice.ID,
		OrderID:        invoice.OrderID,
		UserID:         invoice.UserID,
		Number:         invoice.Number,
		TotalAmount:    invoice.TotalAmount,
		DiscountAmount: invoice.DiscountAmount,
		FinalAmount:    invoice.FinalAmount,
		IssuedAt:       invoice.IssuedAt,
	}
}
