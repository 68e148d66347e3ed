package postgres

import (
	"context"
	"strings"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// couponRepository implements the repository.CouponRepository interface.
type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository is the constructor for couponRepository.
func NewCouponRepository(db *gorm.DB) repository.CouponRepository {
	return &couponRepository{
		db: db,
	}
}

// FindByCode retrieves a coupon by code, case-insensitively. Codes are
// stored uppercase, so the lookup uppercases its input instead of scanning
// with LOWER() and defeating the unique index.
func (repo *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var couponM model.CouponModel

	if err := repo.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&couponM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to find coupon by code")
	}

	return toCouponDomain(&couponM), nil
}

// FindByID retrieves a coupon by its unique ID.
func (repo *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	var couponM model.CouponModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&couponM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCouponNotFound
		}

		return nil, errors.Wrap(err, "failed to find coupon by ID")
	}

	return toCouponDomain(&couponM), nil
}

// List retrieves a page of coupons, newest first, with the total count.
func (repo *couponRepository) List(ctx context.Context, offset, limit int) ([]*entity.Coupon, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.CouponModel{}).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count coupons")
	}

	var couponModels []*model.CouponModel
	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&couponModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list coupons")
	}

	coupons := make([]*entity.Coupon, 0, len(couponModels))
	for _, couponM := range couponModels {
		coupons = append(coupons, toCouponDomain(couponM))
	}

	return coupons, total, nil
}

// Create persists a new coupon.
func (repo *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	couponM := fromCouponDomain(coupon)
	couponM.Code = strings.ToUpper(strings.TrimSpace(couponM.Code))

	if err := repo.db.WithContext(ctx).Create(couponM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCoupon
		}

		return errors.Wrap(err, "failed to create coupon")
	}

	// Update the entity with generated values
	coupon.ID = couponM.ID
	coupon.Code = couponM.Code
	coupon.CreatedAt = couponM.CreatedAt
	coupon.UpdatedAt = couponM.UpdatedAt

	return nil
}

// Update modifies an existing coupon's configuration. The usage counter is
// deliberately excluded; it only moves through IncrementUsage.
func (repo *couponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	couponM := fromCouponDomain(coupon)

	result := repo.db.WithContext(ctx).
		Model(&model.CouponModel{}).
		Where("id = ?", coupon.ID).
		Updates(map[string]any{
			"description":          couponM.Description,
			"discount_type":        couponM.DiscountType,
			"discount_value":       couponM.DiscountValue,
			"min_purchase":         couponM.MinPurchase,
			"max_discount":         couponM.MaxDiscount,
			"usage_limit":          couponM.UsageLimit,
			"usage_limit_per_user": couponM.UsageLimitPerUser,
			"valid_from":           couponM.ValidFrom,
			"valid_until":          couponM.ValidUntil,
			"is_active":            couponM.IsActive,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update coupon")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCouponNotFound
	}

	return nil
}

// CountUsageByUser returns how many times a user has successfully applied
// the coupon, read from the usage ledger.
func (repo *couponRepository) CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.CouponUsageModel{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count coupon usage by user")
	}

	return int(count), nil
}

// HasUsageForOrder reports whether the coupon has already been applied to
// the given order.
func (repo *couponRepository) HasUsageForOrder(ctx context.Context, couponID, orderID uuid.UUID) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.CouponUsageModel{}).
		Where("coupon_id = ? AND order_id = ?", couponID, orderID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check coupon usage for order")
	}

	return count > 0, nil
}

// RecordUsage appends one entry to the usage ledger. The unique index over
// (coupon_id, order_id) is the hard guarantee that an order consumes a
// coupon at most once.
func (repo *couponRepository) RecordUsage(ctx context.Context, usage *entity.CouponUsage) error {
	usageM := &model.CouponUsageModel{
		ID:              usage.ID,
		CouponID:        usage.CouponID,
		UserID:          usage.UserID,
		OrderID:         usage.OrderID,
		DiscountApplied: usage.DiscountApplied,
		UsedAt:          usage.UsedAt,
	}

	if err := repo.db.WithContext(ctx).Create(usageM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCouponUsage
		}

		return errors.Wrap(err, "failed to record coupon usage")
	}

	usage.ID = usageM.ID

	return nil
}

// IncrementUsage atomically bumps the coupon's global usage counter. The
// WHERE clause carries the limit guard, so the check and the write are a
// single statement; a zero RowsAffected means the guard rejected the update.
func (repo *couponRepository) IncrementUsage(ctx context.Context, couponID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CouponModel{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit <= 0 OR usage_count < usage_limit)", couponID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment coupon usage")
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing coupon from an exhausted limit.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.CouponModel{}).
			Where("id = ?", couponID).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check coupon existence")
		}
		if count == 0 {
			return repository.ErrCouponNotFound
		}

		return repository.ErrCouponExhausted
	}

	return nil
}

// toCouponDomain maps the persistence model to a pure domain entity.
func toCouponDomain(couponM *model.CouponModel) *entity.Coupon {
	return &entity.Coupon{
		ID:                couponM.ID,
		Code:              couponM.Code,
		Description:       couponM.Description,
		DiscountType:      entity.DiscountType(couponM.DiscountType),
		DiscountValue:     couponM.DiscountValue,
		MinPurchase:       couponM.MinPurchase,
		MaxDiscount:       couponM.MaxDiscount,
		UsageLimit:        couponM.UsageLimit,
		UsageLimitPerUser: couponM.UsageLimitPerUser,
		UsageCount:        couponM.UsageCount,
		ValidFrom:         couponM.ValidFrom,
		ValidUntil:        couponM.ValidUntil,
		IsActive:          couponM.IsActive,
		CreatedAt:         couponM.CreatedAt,
		UpdatedAt:         couponM.UpdatedAt,
	}
}

// fromCouponDomain maps a domain entity to the persistence model.
func fromCouponDomain(coupon *entity.Coupon) *model.CouponModel {
	return &model.CouponModel{
		ID:                coupon.ID,
		Code:              coupon.Code,
		Description:       coupon.Description,
		DiscountType:      string(coupon.DiscountType),
		DiscountValue:     coupon.DiscountValue,
		MinPurchase:       coupon.MinPurchase,
		MaxDiscount:       coupon.MaxDiscount,
		UsageLimit:        coupon.UsageLimit,
		UsageLimitPerUser: coupon.UsageLimitPerUser,
		UsageCount:        coupon.UsageCount,
		ValidFrom:         coupon.ValidFrom,
		ValidUntil:        coupon.ValidUntil,
		IsActive:          coupon.IsActive,
		CreatedAt:         coupon.CreatedAt,
		UpdatedAt:         coupon.UpdatedAt,
	}
}
