package postgres

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Create persists an order together with all of its items. GORM inserts the
// associated item rows with the order in one go.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i := range orderM.Items {
		order.Items[i].ID = orderM.Items[i].ID
		order.Items[i].OrderID = orderM.Items[i].OrderID
	}

	return nil
}

// FindByID retrieves an order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// List retrieves a page of orders matching the filter, newest first.
func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter, offset, limit int) ([]*entity.Order, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, total, nil
}

// UpdateStatus sets the order's status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// SetPaymentIntent stores the external payment handle on the order.
func (repo *orderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("payment_intent_id", paymentIntentID)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set payment intent")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// toOrderDomain maps the persistence model to a pure domain entity.
func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	items := make([]entity.OrderItem, 0, len(orderM.Items))
	for _, itemM := range orderM.Items {
		items = append(items, entity.OrderItem{
			ID:              itemM.ID,
			OrderID:         itemM.OrderID,
			ProductID:       itemM.ProductID,
			Quantity:        itemM.Quantity,
			UnitPrice:       itemM.UnitPrice,
			ProductName:     itemM.ProductName,
			ProductImageURL: itemM.ProductImageURL,
		})
	}

	return &entity.Order{
		ID:              orderM.ID,
		UserID:          orderM.UserID,
		Status:          entity.OrderStatus(orderM.Status),
		TotalAmount:     orderM.TotalAmount,
		CouponCode:      orderM.CouponCode,
		DiscountAmount:  orderM.DiscountAmount,
		FinalAmount:     orderM.FinalAmount,
		PaymentIntentID: orderM.PaymentIntentID,
		ShippingAddress: orderM.ShippingAddress,
		BillingAddress:  orderM.BillingAddress,
		Items:           items,
		CreatedAt:       orderM.CreatedAt,
		UpdatedAt:       orderM.UpdatedAt,
	}
}

// fromOrderDomain maps a domain entity to the persistence model.
func fromOrderDomain(order *entity.Order) *model.OrderModel {
	items := make([]model.OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.OrderItemModel{
			ID:              item.ID,
			OrderID:         item.OrderID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
		})
	}

	return &model.OrderModel{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		CouponCode:      order.CouponCode,
		DiscountAmount:  order.DiscountAmount,
		FinalAmount:     order.FinalAmount,
		PaymentIntentID: order.PaymentIntentID,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
