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
	"blitzshop/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// checkoutService implements the CheckoutUsecase interface. The whole
// cart-to-order conversion runs inside one database transaction.
type checkoutService struct {
	txManager repository.TransactionManager
	config    *config.Config
	logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(
	txManager repository.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CheckoutUsecase {
	return &checkoutService{
		txManager: txManager,
		config:    cfg,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout converts the user's cart into a pending order. The sequence is:
// load the cart, revalidate every product, snapshot prices into order items,
// create the order, apply the coupon, decrement stock, clear the cart. Any
// failure rolls the whole transaction back, so a partially converted cart
// can never be observed.
func (srv *checkoutService) Checkout(ctx context.Context, input usecase.CheckoutInput) (*entity.Order, error) {
	if input.ShippingAddress == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("shipping address is required")
	}
	billingAddress := input.BillingAddress
	if billingAddress == "" {
		billingAddress = input.ShippingAddress
	}

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		cartRepo := f.NewCartRepository()
		productRepo := f.NewProductRepository()
		couponRepo := f.NewCouponRepository()
		orderRepo := f.NewOrderRepository()

		items, err := cartRepo.ListByUser(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to list cart items")
		}
		if len(items) == 0 {
			return domainerrors.ErrEmptyCart
		}

		// Revalidate every product and snapshot name, image and unit price.
		// The snapshot is what the order keeps; later catalog edits must not
		// change historical orders.
		total := decimal.Zero
		orderItems := make([]entity.OrderItem, 0, len(items))
		for _, item := range items {
			product, err := productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductUnavailable.WithDetails(item.ProductID.String())
				}

				return errors.Wrap(err, "failed to find product")
			}
			if !product.IsActive {
				return domainerrors.ErrProductUnavailable.WithDetails(product.Name)
			}
			if product.Stock < item.Quantity {
				return domainerrors.ErrInsufficientStock.WithDetails(product.Name)
			}

			orderItems = append(orderItems, entity.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				UnitPrice:       product.Price,
				ProductName:     product.Name,
				ProductImageURL: product.ImageURL,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// Evaluate the coupon before creating the order so an unusable code
		// aborts the checkout entirely rather than silently dropping the
		// discount.
		discount := decimal.Zero
		couponCode := ""
		var appliedCoupon *entity.Coupon
		if input.CouponCode != "" {
			eval, err := evaluateCoupon(ctx, couponRepo, input.UserID, input.CouponCode, total, time.Now())
			if err != nil {
				return err
			}
			if eval.Reason != "" {
				return domainerrors.ErrCouponInvalid.WithDetails(eval.Reason)
			}
			discount = eval.Discount
			couponCode = eval.Coupon.Code
			appliedCoupon = eval.Coupon
		}

		order = &entity.Order{
			UserID:          input.UserID,
			Status:          entity.OrderStatusPending,
			TotalAmount:     total,
			CouponCode:      couponCode,
			DiscountAmount:  discount,
			FinalAmount:     total.Sub(discount),
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  billingAddress,
			Items:           orderItems,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		if appliedCoupon != nil {
			// The conditional increment is the authoritative gate on the
			// global usage limit; a concurrent checkout that consumed the
			// last use makes this fail and roll everything back.
			if err := couponRepo.IncrementUsage(ctx, appliedCoupon.ID); err != nil {
				if errors.Is(err, repository.ErrCouponExhausted) {
					return domainerrors.ErrCouponUsageLimit
				}

				return errors.Wrap(err, "failed to increment coupon usage")
			}

			// The order was just created, so an existing ledger entry means
			// the coupon was already consumed for it.
			applied, err := couponRepo.HasUsageForOrder(ctx, appliedCoupon.ID, order.ID)
			if err != nil {
				return errors.Wrap(err, "failed to check coupon usage for order")
			}
			if applied {
				return domainerrors.ErrCouponAlreadyApplied
			}

			usage := &entity.CouponUsage{
				CouponID:        appliedCoupon.ID,
				UserID:          input.UserID,
				OrderID:         order.ID,
				DiscountApplied: discount,
				UsedAt:          time.Now(),
			}
			if err := couponRepo.RecordUsage(ctx, usage); err != nil {
				if errors.Is(err, repository.ErrDuplicateCouponUsage) {
					return domainerrors.ErrCouponAlreadyApplied
				}

				return errors.Wrap(err, "failed to record coupon usage")
			}
		}

		// Conditional decrements are the authoritative stock gate; the
		// earlier read is advisory only.
		for _, item := range orderItems {
			if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.ErrInsufficientStock.WithDetails(item.ProductName)
				}
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductUnavailable.WithDetails(item.ProductName)
				}

				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		if err := cartRepo.ClearByUser(ctx, input.UserID); err != nil {
			return errors.Wrap(err, "failed to clear cart")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Checkout completed",
		slog.String("orderId", order.ID.String()),
		slog.String("userId", input.UserID.String()),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.String("discount", order.DiscountAmount.StringFixed(2)),
		slog.String("final", order.FinalAmount.StringFixed(2)),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}
