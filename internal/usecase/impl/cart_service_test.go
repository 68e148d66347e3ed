package impl

import (
	"context"
	"log/slog"
	"testing"

	"blitzshop/config"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	mockRepo "blitzshop/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*cartService, *mockRepo.MockCartRepository, *mockRepo.MockProductRepository) {
	t.Helper()

	cartRepo := mockRepo.NewMockCartRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	service := NewCartService(cartRepo, productRepo, &config.Config{}, slog.Default())

	return service.(*cartService), cartRepo, productRepo
}

func TestCartService_GetCart_SumsSubtotals(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	firstProduct := uuid.New()
	secondProduct := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: firstProduct, Quantity: 2},
		{ID: uuid.New(), UserID: userID, ProductID: secondProduct, Quantity: 1},
	}

	cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	productRepo.EXPECT().FindByID(ctx, firstProduct).Return(&entity.Product{
		ID: firstProduct, Name: "Mug", Price: decimal.RequireFromString("9.50"), Stock: 10, IsActive: true,
	}, nil)
	productRepo.EXPECT().FindByID(ctx, secondProduct).Return(&entity.Product{
		ID: secondProduct, Name: "Poster", Price: decimal.RequireFromString("14.00"), Stock: 3, IsActive: true,
	}, nil)

	cart, err := service.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.True(t, cart.Lines[0].Subtotal.Equal(decimal.RequireFromString("19.00")))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("33.00")))
}

func TestCartService_GetCart_SkipsVanishedProducts(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	goneProduct := uuid.New()
	liveProduct := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: goneProduct, Quantity: 1},
		{ID: uuid.New(), UserID: userID, ProductID: liveProduct, Quantity: 1},
	}

	cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	productRepo.EXPECT().FindByID(ctx, goneProduct).Return(nil, repository.ErrProductNotFound)
	productRepo.EXPECT().FindByID(ctx, liveProduct).Return(&entity.Product{
		ID: liveProduct, Name: "Pen", Price: decimal.RequireFromString("2.00"), Stock: 50, IsActive: true,
	}, nil)

	cart, err := service.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("2.00")))
}

func TestCartService_GetCart_SkipsDeactivatedProducts(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	retiredProduct := uuid.New()
	liveProduct := uuid.New()

	items := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: retiredProduct, Quantity: 1},
		{ID: uuid.New(), UserID: userID, ProductID: liveProduct, Quantity: 1},
	}

	cartRepo.EXPECT().ListByUser(ctx, userID).Return(items, nil)
	productRepo.EXPECT().FindByID(ctx, retiredProduct).Return(&entity.Product{
		ID: retiredProduct, Name: "Retired", Price: decimal.RequireFromString("99.00"), Stock: 4, IsActive: false,
	}, nil)
	productRepo.EXPECT().FindByID(ctx, liveProduct).Return(&entity.Product{
		ID: liveProduct, Name: "Mousepad", Price: decimal.RequireFromString("10.00"), Stock: 12, IsActive: true,
	}, nil)

	cart, err := service.GetCart(ctx, userID)
	require.NoError(t, err)
	// The deactivated line is neither listed nor priced into the total.
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, liveProduct, cart.Lines[0].Product.ID)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestCartService_AddItem_NewLine(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &entity.Product{
		ID: productID, Name: "Headphones", Price: decimal.RequireFromString("49.00"), Stock: 4, IsActive: true,
	}

	productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	cartRepo.EXPECT().FindByUserAndProduct(ctx, userID, productID).Return(nil, repository.ErrCartItemNotFound)
	cartRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.CartItem")).
		Run(func(ctx context.Context, item *entity.CartItem) {
			assert.Equal(t, userID, item.UserID)
			assert.Equal(t, 3, item.Quantity)
			item.ID = uuid.New()
		}).
		Return(nil)
	cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 3},
	}, nil)

	cart, err := service.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Item.Quantity)
}

func TestCartService_AddItem_SumsWithExistingLine(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()
	product := &entity.Product{
		ID: productID, Name: "Charger", Price: decimal.RequireFromString("19.00"), Stock: 10, IsActive: true,
	}
	existing := &entity.CartItem{ID: itemID, UserID: userID, ProductID: productID, Quantity: 2}

	productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	cartRepo.EXPECT().FindByUserAndProduct(ctx, userID, productID).Return(existing, nil)
	cartRepo.EXPECT().UpdateQuantity(ctx, itemID, 5).Return(nil)
	cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{
		{ID: itemID, UserID: userID, ProductID: productID, Quantity: 5},
	}, nil)

	cart, err := service.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Item.Quantity)
}

func TestCartService_AddItem_CombinedQuantityExceedsStock(t *testing.T) {
	service, cartRepo, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &entity.Product{
		ID: productID, Name: "Limited Print", Price: decimal.RequireFromString("99.00"), Stock: 3, IsActive: true,
	}
	existing := &entity.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2}

	productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	cartRepo.EXPECT().FindByUserAndProduct(ctx, userID, productID).Return(existing, nil)

	cart, err := service.AddItem(ctx, userID, productID, 2)
	require.Error(t, err)
	assert.Nil(t, cart)
	assertErrorCode(t, err, "INSUFFICIENT_STOCK")
}

func TestCartService_AddItem_InactiveProduct(t *testing.T) {
	service, _, productRepo := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Discontinued", Price: decimal.RequireFromString("5.00"), Stock: 5, IsActive: false,
	}, nil)

	cart, err := service.AddItem(ctx, userID, productID, 1)
	require.Error(t, err)
	assert.Nil(t, cart)
	// A deactivated product is reported exactly like a missing one.
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	service, _, _ := newCartService(t)

	cart, err := service.AddItem(context.Background(), uuid.New(), uuid.New(), 0)
	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)
}

func TestCartService_UpdateItemQuantity_ZeroDeletesLine(t *testing.T) {
	service, cartRepo, _ := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()
	item := &entity.CartItem{ID: itemID, UserID: userID, ProductID: uuid.New(), Quantity: 2}

	cartRepo.EXPECT().FindByID(ctx, itemID).Return(item, nil)
	cartRepo.EXPECT().Delete(ctx, itemID).Return(nil)
	cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{}, nil)

	cart, err := service.UpdateItemQuantity(ctx, userID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total.IsZero())
}

func TestCartService_UpdateItemQuantity_OtherUsersLineHidden(t *testing.T) {
	service, cartRepo, _ := newCartService(t)

	ctx := context.Background()
	itemID := uuid.New()
	item := &entity.CartItem{ID: itemID, UserID: uuid.New(), ProductID: uuid.New(), Quantity: 1}

	cartRepo.EXPECT().FindByID(ctx, itemID).Return(item, nil)

	cart, err := service.UpdateItemQuantity(ctx, uuid.New(), itemID, 2)
	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	service, cartRepo, _ := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()
	item := &entity.CartItem{ID: itemID, UserID: userID, ProductID: uuid.New(), Quantity: 1}

	cartRepo.EXPECT().FindByID(ctx, itemID).Return(item, nil)
	cartRepo.EXPECT().Delete(ctx, itemID).Return(nil)
	cartRepo.EXPECT().ListByUser(ctx, userID).Return([]*entity.CartItem{}, nil)

	cart, err := service.RemoveItem(ctx, userID, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartService_ClearCart(t *testing.T) {
	service, cartRepo, _ := newCartService(t)

	ctx := context.Background()
	userID := uuid.New()

	cartRepo.EXPECT().ClearByUser(ctx, userID).Return(nil)

	require.NoError(t, service.ClearCart(ctx, userID))
}
