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
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// checkoutMocks bundles the transactional repositories used by checkout.
type checkoutMocks struct {
	cartRepo    *mockRepo.MockCartRepository
	productRepo *mockRepo.MockProductRepository
	couponRepo  *mockRepo.MockCouponRepository
	orderRepo   *mockRepo.MockOrderRepository
}

// newCheckoutService wires a checkout service whose transaction manager
// simply runs the callback against the mocked factory.
func newCheckoutService(t *testing.T) (*checkoutService, *checkoutMocks) {
	t.Helper()

	mocks := &checkoutMocks{
		cartRepo:    mockRepo.NewMockCartRepository(t),
		productRepo: mockRepo.NewMockProductRepository(t),
		couponRepo:  mockRepo.NewMockCouponRepository(t),
		orderRepo:   mockRepo.NewMockOrderRepository(t),
	}

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().NewCartRepository().Return(mocks.cartRepo).Maybe()
	factory.EXPECT().NewProductRepository().Return(mocks.productRepo).Maybe()
	factory.EXPECT().NewCouponRepository().Return(mocks.couponRepo).Maybe()
	factory.EXPECT().NewOrderRepository().Return(mocks.orderRepo).Maybe()

	txManager := mockRepo.NewMockTransactionManager(t)
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Maybe()

	service := NewCheckoutService(txManager, &config.Config{}, slog.Default())

	return service.(*checkoutService), mocks
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	orderID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Mechanical Keyboard",
		Price:    decimal.RequireFromString("79.90"),
		Stock:    5,
		ImageURL: "https://cdn.example.com/kb.png",
		IsActive: true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(ctx context.Context, order *entity.Order) {
			order.ID = orderID
		}).
		Return(nil)
	mocks.productRepo.EXPECT().DecrementStock(ctx, productID, 2).Return(nil)
	mocks.cartRepo.EXPECT().ClearByUser(ctx, userID).Return(nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("159.80")))
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("159.80")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mechanical Keyboard", order.Items[0].ProductName)
	assert.True(t, order.Items[0].UnitPrice.Equal(product.Price))
	assert.Equal(t, "12 Main St", order.BillingAddress) // Defaults to shipping.
}

func TestCheckoutService_Checkout_EmptyCart(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{}, nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
}

func TestCheckoutService_Checkout_MissingShippingAddress(t *testing.T) {
	service, _ := newCheckoutService(t)

	input := checkoutInput(uuid.New(), "")
	input.ShippingAddress = ""

	order, err := service.Checkout(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, order)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestCheckoutService_Checkout_InactiveProductAborts(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Retired Widget",
		Price:    decimal.RequireFromString("10.00"),
		Stock:    3,
		IsActive: false,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.Error(t, err)
	assert.Nil(t, order)
	assertErrorCode(t, err, "PRODUCT_UNAVAILABLE")
}

func TestCheckoutService_Checkout_InsufficientStockOnRead(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 4},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Scarce Widget",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    2,
		IsActive: true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.Error(t, err)
	assert.Nil(t, order)
	assertErrorCode(t, err, "INSUFFICIENT_STOCK")
}

func TestCheckoutService_Checkout_ConcurrentStockShortfallAborts(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Contested Widget",
		Price:    decimal.RequireFromString("15.50"),
		Stock:    2,
		IsActive: true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)
	// The advisory read passed, but a concurrent checkout drained the stock
	// before the conditional decrement ran.
	mocks.productRepo.EXPECT().
		DecrementStock(ctx, productID, 2).
		Return(repository.ErrInsufficientStock)

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.Error(t, err)
	assert.Nil(t, order)
	assertErrorCode(t, err, "INSUFFICIENT_STOCK")
}

func TestCheckoutService_Checkout_WithPercentageCoupon(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	orderID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Machine",
		Price:    decimal.RequireFromString("100.00"),
		Stock:    10,
		IsActive: true,
	}
	coupon := &entity.Coupon{
		ID:            couponID,
		Code:          "WELCOME10",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "WELCOME10").Return(coupon, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(ctx context.Context, order *entity.Order) {
			order.ID = orderID
		}).
		Return(nil)
	mocks.couponRepo.EXPECT().IncrementUsage(ctx, couponID).Return(nil)
	mocks.couponRepo.EXPECT().HasUsageForOrder(ctx, couponID, orderID).Return(false, nil)
	mocks.couponRepo.EXPECT().
		RecordUsage(ctx, mock.AnythingOfType("*entity.CouponUsage")).
		Run(func(ctx context.Context, usage *entity.CouponUsage) {
			assert.Equal(t, couponID, usage.CouponID)
			assert.Equal(t, userID, usage.UserID)
			assert.Equal(t, orderID, usage.OrderID)
		}).
		Return(nil)
	mocks.productRepo.EXPECT().DecrementStock(ctx, productID, 2).Return(nil)
	mocks.cartRepo.EXPECT().ClearByUser(ctx, userID).Return(nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, "WELCOME10"))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "WELCOME10", order.CouponCode)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("180.00")))
}

func TestCheckoutService_Checkout_WithFixedCouponMeetingMinPurchase(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	orderID := uuid.New()
	minPurchase := decimal.RequireFromString("20.00")

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Backpack",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    6,
		IsActive: true,
	}
	coupon := &entity.Coupon{
		ID:            couponID,
		Code:          "SAVE5",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		MinPurchase:   &minPurchase,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "SAVE5").Return(coupon, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(ctx context.Context, order *entity.Order) {
			order.ID = orderID
		}).
		Return(nil)
	mocks.couponRepo.EXPECT().IncrementUsage(ctx, couponID).Return(nil)
	mocks.couponRepo.EXPECT().HasUsageForOrder(ctx, couponID, orderID).Return(false, nil)
	mocks.couponRepo.EXPECT().
		RecordUsage(ctx, mock.AnythingOfType("*entity.CouponUsage")).
		Run(func(ctx context.Context, usage *entity.CouponUsage) {
			assert.True(t, usage.DiscountApplied.Equal(decimal.RequireFromString("5.00")))
		}).
		Return(nil)
	mocks.productRepo.EXPECT().DecrementStock(ctx, productID, 1).Return(nil)
	mocks.cartRepo.EXPECT().ClearByUser(ctx, userID).Return(nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, "SAVE5"))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "SAVE5", order.CouponCode)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("20.00")))
}

func TestCheckoutService_Checkout_CouponAlreadyAppliedAborts(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	orderID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Travel Mug",
		Price:    decimal.RequireFromString("22.00"),
		Stock:    9,
		IsActive: true,
	}
	coupon := &entity.Coupon{
		ID:            couponID,
		Code:          "SAVE5",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "SAVE5").Return(coupon, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(ctx context.Context, order *entity.Order) {
			order.ID = orderID
		}).
		Return(nil)
	mocks.couponRepo.EXPECT().IncrementUsage(ctx, couponID).Return(nil)
	mocks.couponRepo.EXPECT().HasUsageForOrder(ctx, couponID, orderID).Return(false, nil)
	// The ledger's unique index caught a write the advisory check missed.
	mocks.couponRepo.EXPECT().
		RecordUsage(ctx, mock.AnythingOfType("*entity.CouponUsage")).
		Return(repository.ErrDuplicateCouponUsage)

	order, err := service.Checkout(ctx, checkoutInput(userID, "SAVE5"))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrCouponAlreadyApplied)
}

func TestCheckoutService_Checkout_InvalidCouponAborts(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Desk Lamp",
		Price:    decimal.RequireFromString("30.00"),
		Stock:    5,
		IsActive: true,
	}
	expired := time.Now().Add(-time.Hour)
	coupon := &entity.Coupon{
		ID:            couponID,
		Code:          "OLDCODE",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		ValidFrom:     time.Now().Add(-48 * time.Hour),
		ValidUntil:    &expired,
		IsActive:      true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "OLDCODE").Return(coupon, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)

	order, err := service.Checkout(ctx, checkoutInput(userID, "OLDCODE"))
	require.Error(t, err)
	assert.Nil(t, order)
	assertErrorCode(t, err, "COUPON_INVALID")
}

func TestCheckoutService_Checkout_UnknownCouponAborts(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Notebook",
		Price:    decimal.RequireFromString("4.50"),
		Stock:    100,
		IsActive: true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "NOPE").Return(nil, repository.ErrCouponNotFound)

	order, err := service.Checkout(ctx, checkoutInput(userID, "NOPE"))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrCouponNotFound)
}

func TestCheckoutService_Checkout_CouponExhaustedConcurrently(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1},
	}
	product := &entity.Product{
		ID:       productID,
		Name:     "Water Bottle",
		Price:    decimal.RequireFromString("12.00"),
		Stock:    8,
		IsActive: true,
	}
	limit := 100
	coupon := &entity.Coupon{
		ID:            couponID,
		Code:          "SAVE5",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		UsageLimit:    &limit,
		UsageCount:    99,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}

	mocks.cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	mocks.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	mocks.couponRepo.EXPECT().FindByCode(ctx, "SAVE5").Return(coupon, nil)
	mocks.couponRepo.EXPECT().CountUsageByUser(ctx, couponID, userID).Return(0, nil)
	mocks.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)
	// A concurrent checkout consumed the last remaining use between the
	// advisory read and the conditional increment.
	mocks.couponRepo.EXPECT().
		IncrementUsage(ctx, couponID).
		Return(repository.ErrCouponExhausted)

	order, err := service.Checkout(ctx, checkoutInput(userID, "SAVE5"))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrCouponUsageLimit)
}

func TestCheckoutService_Checkout_RepositoryFailurePropagates(t *testing.T) {
	service, mocks := newCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	mocks.cartRepo.EXPECT().
		ListByUser(ctx, userID).
		Return(nil, errors.New("connection reset"))

	order, err := service.Checkout(ctx, checkoutInput(userID, ""))
	require.Error(t, err)
	assert.Nil(t, order)
}

// checkoutInput builds a minimal valid checkout input.
func checkoutInput(userID uuid.UUID, couponCode string) usecase.CheckoutInput {
	return usecase.CheckoutInput{
		UserID:          userID,
		CouponCode:      couponCode,
		ShippingAddress: "12 Main St",
	}
}
