package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"blitzshop/config"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	mockRepo "blitzshop/internal/mocks/repository"
	mockSvc "blitzshop/internal/mocks/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type couponServiceMocks struct {
	couponRepo  *mockRepo.MockCouponRepository
	cartRepo    *mockRepo.MockCartRepository
	productRepo *mockRepo.MockProductRepository
	authorizer  *mockSvc.MockAuthorizer
}

func newCouponService(t *testing.T) (*couponService, *couponServiceMocks) {
	t.Helper()

	mocks := &couponServiceMocks{
		couponRepo:  mockRepo.NewMockCouponRepository(t),
		cartRepo:    mockRepo.NewMockCartRepository(t),
		productRepo: mockRepo.NewMockProductRepository(t),
		authorizer:  mockSvc.NewMockAuthorizer(t),
	}
	service := NewCouponService(mocks.couponRepo, mocks.cartRepo, mocks.productRepo, mocks.authorizer, &config.Config{}, slog.Default())

	return service.(*couponService), mocks
}

func TestCouponService_ValidateCoupon_Valid(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2},
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Speaker", Price: decimal.RequireFromString("60.00"), Stock: 5, IsActive: true,
	}, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "SAVE5").Return(&entity.Coupon{
		ID:            couponID,
		Code:          "SAVE5",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)

	output, err := service.ValidateCoupon(ctx, userID, "SAVE5")
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Reason)
	assert.True(t, output.CartTotal.Equal(decimal.RequireFromString("120.00")))
	assert.True(t, output.Discount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, output.FinalAmount.Equal(decimal.RequireFromString("115.00")))
}

func TestCouponService_ValidateCoupon_BelowMinimumPurchase(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	minPurchase := decimal.RequireFromString("100.00")

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Cable", Price: decimal.RequireFromString("8.00"), Stock: 20, IsActive: true,
	}, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "BIGSPEND").Return(&entity.Coupon{
		ID:            couponID,
		Code:          "BIGSPEND",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		MinPurchase:   &minPurchase,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)

	output, err := service.ValidateCoupon(ctx, userID, "BIGSPEND")
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Contains(t, output.Reason, "Minimum purchase")
	assert.True(t, output.Discount.IsZero())
	assert.True(t, output.FinalAmount.Equal(output.CartTotal))
}

func TestCouponService_ValidateCoupon_IgnoresDeactivatedLines(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()
	liveProduct := uuid.New()
	retiredProduct := uuid.New()
	couponID := uuid.New()
	minPurchase := decimal.RequireFromString("100.00")

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: liveProduct, Quantity: 1},
		{ID: uuid.New(), UserID: userID, ProductID: retiredProduct, Quantity: 1},
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, liveProduct).Return(&entity.Product{
		ID: liveProduct, Name: "Keyboard", Price: decimal.RequireFromString("15.00"), Stock: 5, IsActive: true,
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, retiredProduct).Return(&entity.Product{
		ID: retiredProduct, Name: "Retired", Price: decimal.RequireFromString("99.00"), Stock: 5, IsActive: false,
	}, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "BIGSPEND").Return(&entity.Coupon{
		ID:            couponID,
		Code:          "BIGSPEND",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		MinPurchase:   &minPurchase,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)

	output, err := service.ValidateCoupon(ctx, userID, "BIGSPEND")
	require.NoError(t, err)
	// The deactivated line would have cleared the threshold; it must not count.
	assert.True(t, output.CartTotal.Equal(decimal.RequireFromString("15.00")))
	assert.False(t, output.Valid)
	assert.Contains(t, output.Reason, "Minimum purchase")
}

func TestCouponService_ValidateCoupon_PerUserLimitReached(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	perUser := 1

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Stand", Price: decimal.RequireFromString("35.00"), Stock: 5, IsActive: true,
	}, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "ONCE").Return(&entity.Coupon{
		ID:                couponID,
		Code:              "ONCE",
		DiscountType:      entity.DiscountFixed,
		DiscountValue:     decimal.NewFromInt(10),
		UsageLimitPerUser: &perUser,
		ValidFrom:         time.Now().Add(-time.Hour),
		IsActive:          true,
	}, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(1, nil)

	output, err := service.ValidateCoupon(ctx, userID, "ONCE")
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, "You have already used this coupon", output.Reason)
}

func TestCouponService_ValidateCoupon_EmptyCart(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{}, nil)

	output, err := service.ValidateCoupon(ctx, userID, "SAVE5")
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
}

func TestCouponService_ValidateCoupon_UnknownCode(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Mousepad", Price: decimal.RequireFromString("12.00"), Stock: 9, IsActive: true,
	}, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "GHOST").Return(nil, repository.ErrCouponNotFound)

	output, err := service.ValidateCoupon(ctx, userID, "GHOST")
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrCouponNotFound)
}

func TestCouponService_CreateCoupon_Success(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	admin := adminActor()

	mocks.authorizer.EXPECT().
		Authorize(admin, mock.Anything, mock.Anything).
		Return(nil)
	mocks.couponRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Coupon")).
		Run(func(ctx context.Context, coupon *entity.Coupon) {
			coupon.ID = uuid.New()
		}).
		Return(nil)

	coupon, err := service.CreateCoupon(ctx, admin, usecase.CreateCouponInput{
		Code:          "WELCOME10",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now(),
		IsActive:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
}

func TestCouponService_CreateCoupon_DuplicateCode(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	admin := adminActor()

	mocks.authorizer.EXPECT().
		Authorize(admin, mock.Anything, mock.Anything).
		Return(nil)
	mocks.couponRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Coupon")).
		Return(repository.ErrDuplicateCoupon)

	coupon, err := service.CreateCoupon(ctx, admin, usecase.CreateCouponInput{
		Code:          "WELCOME10",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		ValidFrom:     time.Now(),
		IsActive:      true,
	})
	require.Error(t, err)
	assert.Nil(t, coupon)
	assert.ErrorIs(t, err, domainerrors.ErrCouponAlreadyExists)
}

func TestCouponService_CreateCoupon_InvalidPercentage(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	admin := adminActor()

	mocks.authorizer.EXPECT().
		Authorize(admin, mock.Anything, mock.Anything).
		Return(nil)

	coupon, err := service.CreateCoupon(ctx, admin, usecase.CreateCouponInput{
		Code:          "TOOMUCH",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(150),
		ValidFrom:     time.Now(),
		IsActive:      true,
	})
	require.Error(t, err)
	assert.Nil(t, coupon)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestCouponService_CreateCoupon_Unauthorized(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	customer := customerActor()

	mocks.authorizer.EXPECT().
		Authorize(customer, mock.Anything, mock.Anything).
		Return(domainerrors.ErrForbidden)

	coupon, err := service.CreateCoupon(ctx, customer, usecase.CreateCouponInput{
		Code:          "NOPE",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.Nil(t, coupon)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCouponService_UpdateCoupon_DeactivatesCoupon(t *testing.T) {
	service, mocks := newCouponService(t)

	ctx := context.Background()
	admin := adminActor()
	couponID := uuid.New()
	inactive := false

	mocks.authorizer.EXPECT().
		Authorize(admin, mock.Anything, mock.Anything).
		Return(nil)
	mocks.couponRepo.EXPECT().FindByID(ctx, couponID).Return(&entity.Coupon{
		ID:            couponID,
		Code:          "SAVE5",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		IsActive:      true,
	}, nil)
	mocks.couponRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Coupon")).
		Return(nil)

	coupon, err := service.UpdateCoupon(ctx, admin, couponID, usecase.UpdateCouponInput{
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, coupon.IsActive)
	assert.Equal(t, "SAVE5", coupon.Code)
}
