package postgres

import (
	"context"

	"blitzshop/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gormTransactionManager implements the repository.TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager is the constructor for gormTransactionManager.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{
		db: db,
	}
}

// Execute runs a function within a database transaction. All repositories
// obtained from the factory share the transaction's connection, so either
// every write in fn commits or none do.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		factory := &gormRepositoryFactory{tx: tx}

		return fn(factory)
	})
	if err != nil {
		return errors.Wrap(err, "transaction failed")
	}

	return nil
}

// gormRepositoryFactory provides repositories bound to a single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB
}

// NewProductRepository returns a ProductRepository bound to the current transaction.
func (f *gormRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return NewProductRepository(f.tx)
}

// NewCartRepository returns a CartRepository bound to the current transaction.
func (f *gormRepositoryFactory) NewCartRepository() repository.CartRepository {
	return NewCartRepository(f.tx)
}

// NewCouponRepository returns a CouponRepository bound to the current transaction.
func (f *gormRepositoryFactory) NewCouponRepository() repository.CouponRepository {
	return NewCouponRepository(f.tx)
}

// NewOrderRepository returns an OrderRepository bound to the current transaction.
func (f *gormRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(f.tx)
}

// NewInvoiceRepository returns an InvoiceRepository bound to the current transaction.
func (f *gormRepositoryFactory) NewInvoiceRepository() repository.InvoiceRepository {
	return NewInvoiceRepository(f.tx)
}
