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

// couponEvaluation is the result of checking a coupon against a cart total.
type couponEvaluation struct {
	Coupon   *entity.Coupon
	Discount decimal.Decimal
	Reason   string // Empty when the coupon is applicable.
}

// evaluateCoupon runs the full rule chain for one coupon against one cart
// total. It is shared between the validation endpoint and checkout so both
// paths agree on what a coupon is worth. The repository passed in decides
// the transactional context.
func evaluateCoupon(ctx context.Context, couponRepo repository.CouponRepository, userID uuid.UUID, code string, cartTotal decimal.Decimal, now time.Time) (*couponEvaluation, error) {
	coupon, err := couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return nil, domainerrors.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to find coupon by code")
	}

	userUsage, err := couponRepo.CountUsageByUser(ctx, coupon.ID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count coupon usage")
	}

	ok, reason := coupon.CheckValid(now, cartTotal, userUsage)
	if !ok {
		return &couponEvaluation{Coupon: coupon, Discount: decimal.Zero, Reason: reason}, nil
	}

	return &couponEvaluation{Coupon: coupon, Discount: coupon.Discount(cartTotal)}, nil
}

// couponService implements the CouponUsecase interface.
type couponService struct {
	couponRepo  repository.CouponRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	authorizer  service.Authorizer
	config      *config.Config
	logger      *slog.Logger
}

// NewCouponService is the constructor for couponService.
func NewCouponService(
	couponRepo repository.CouponRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CouponUsecase {
	return &couponService{
		couponRepo:  couponRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		authorizer:  authorizer,
		config:      cfg,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *couponService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ValidateCoupon checks a code against the user's current cart without
// consuming a use.
func (srv *couponService) ValidateCoupon(ctx context.Context, userID uuid.UUID, code string) (*usecase.CouponValidationOutput, error) {
	cartTotal, err := srv.currentCartTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	eval, err := evaluateCoupon(ctx, srv.couponRepo, userID, code, cartTotal, time.Now())
	if err != nil {
		return nil, err
	}

	return &usecase.CouponValidationOutput{
		Valid:       eval.Reason == "",
		Reason:      eval.Reason,
		Coupon:      eval.Coupon,
		CartTotal:   cartTotal,
		Discount:    eval.Discount,
		FinalAmount: cartTotal.Sub(eval.Discount),
	}, nil
}

// CreateCoupon creates a coupon.
func (srv *couponService) CreateCoupon(ctx context.Context, actor service.Actor, input usecase.CreateCouponInput) (*entity.Coupon, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "coupon"}); err != nil {
		return nil, err
	}

	if err := validateDiscount(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}
	if input.Code == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("coupon code is required")
	}

	coupon := &entity.Coupon{
		Code:              input.Code,
		Description:       input.Description,
		DiscountType:      input.DiscountType,
		DiscountValue:     input.DiscountValue,
		MinPurchase:       input.MinPurchase,
		MaxDiscount:       input.MaxDiscount,
		UsageLimit:        input.UsageLimit,
		UsageLimitPerUser: input.UsageLimitPerUser,
		ValidFrom:         input.ValidFrom,
		ValidUntil:        input.ValidUntil,
		IsActive:          input.IsActive,
	}
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = time.Now()
	}

	if err := srv.couponRepo.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicateCoupon) {
			return nil, domainerrors.ErrCouponAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create coupon")
	}

	srv.log(ctx).Info("Coupon created",
		slog.String("couponId", coupon.ID.String()),
		slog.String("code", coupon.Code),
	)

	return coupon, nil
}

// UpdateCoupon modifies a coupon's configuration. The code and the usage
// counter are immutable here.
func (srv *couponService) UpdateCoupon(ctx context.Context, actor service.Actor, couponID uuid.UUID, input usecase.UpdateCouponInput) (*entity.Coupon, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "coupon"}); err != nil {
		return nil, err
	}

	coupon, err := srv.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return nil, domainerrors.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to find coupon")
	}

	if input.Description != nil {
		coupon.Description = *input.Description
	}
	if input.DiscountValue != nil {
		if err := validateDiscount(coupon.DiscountType, *input.DiscountValue); err != nil {
			return nil, err
		}
		coupon.DiscountValue = *input.DiscountValue
	}
	if input.MinPurchase != nil {
		coupon.MinPurchase = input.MinPurchase
	}
	if input.MaxDiscount != nil {
		coupon.MaxDiscount = input.MaxDiscount
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = input.UsageLimit
	}
	if input.UsageLimitPerUser != nil {
		coupon.UsageLimitPerUser = input.UsageLimitPerUser
	}
	if input.ValidUntil != nil {
		coupon.ValidUntil = input.ValidUntil
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := srv.couponRepo.Update(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return nil, domainerrors.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to update coupon")
	}

	return coupon, nil
}

// ListCoupons returns a page of all coupons.
func (srv *couponService) ListCoupons(ctx context.Context, actor service.Actor, page, pageSize int) (*usecase.CouponListOutput, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "coupon"}); err != nil {
		return nil, err
	}

	page, pageSize, offset := normalizePaging(srv.config, page, pageSize)

	coupons, total, err := srv.couponRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list coupons")
	}

	return &usecase.CouponListOutput{
		Coupons:  coupons,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetCoupon returns a single coupon by ID.
func (srv *couponService) GetCoupon(ctx context.Context, actor service.Actor, couponID uuid.UUID) (*entity.Coupon, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "coupon"}); err != nil {
		return nil, err
	}

	coupon, err := srv.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return nil, domainerrors.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to find coupon")
	}

	return coupon, nil
}

// currentCartTotal prices the user's cart at current product prices. Lines
// whose product has vanished or been deactivated are skipped, matching what
// the cart read and checkout would do with them.
func (srv *couponService) currentCartTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to list cart items")
	}
	if len(items) == 0 {
		return decimal.Zero, domainerrors.ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		product, err := srv.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}

			return decimal.Zero, errors.Wrap(err, "failed to find product for cart line")
		}
		if !product.IsActive {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total, nil
}

// validateDiscount checks a discount configuration for basic sanity.
func validateDiscount(discountType entity.DiscountType, value decimal.Decimal) error {
	switch discountType {
	case entity.DiscountPercentage:
		if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(decimal.NewFromInt(100)) {
			return domainerrors.ErrValidationFailed.WithDetails("percentage discount must be between 0 and 100")
		}
	case entity.DiscountFixed:
		if value.LessThanOrEqual(decimal.Zero) {
			return domainerrors.ErrValidationFailed.WithDetails("fixed discount must be positive")
		}
	default:
		return domainerrors.ErrValidationFailed.WithDetails("unknown discount type")
	}

	return nil
}
