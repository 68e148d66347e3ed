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
	mockSvc "blitzshop/internal/mocks/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) (*catalogService, *mockRepo.MockProductRepository, *mockRepo.MockReviewRepository, *mockSvc.MockAuthorizer) {
	t.Helper()

	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	authorizer := mockSvc.NewMockAuthorizer(t)
	service := NewCatalogService(productRepo, reviewRepo, authorizer, &config.Config{}, slog.Default())

	return service.(*catalogService), productRepo, reviewRepo, authorizer
}

func TestCatalogService_ListProducts_AnonymousNeverSeesInactive(t *testing.T) {
	service, productRepo, _, _ := newCatalogService(t)

	ctx := context.Background()

	productRepo.EXPECT().
		List(ctx, repository.ProductFilter{Category: "audio", IncludeInactive: false}, 0, 20).
		Return([]*entity.Product{{ID: uuid.New(), Name: "Speaker", IsActive: true}}, 1, nil)

	output, err := service.ListProducts(ctx, nil, usecase.ListProductsInput{
		Category:        "audio",
		IncludeInactive: true, // Ignored for anonymous callers.
	})
	require.NoError(t, err)
	assert.Len(t, output.Products, 1)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 20, output.PageSize)
}

func TestCatalogService_ListProducts_AdminSeesInactive(t *testing.T) {
	service, productRepo, _, authorizer := newCatalogService(t)

	ctx := context.Background()
	admin := adminActor()

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	productRepo.EXPECT().
		List(ctx, repository.ProductFilter{IncludeInactive: true}, 0, 20).
		Return([]*entity.Product{}, 0, nil)

	_, err := service.ListProducts(ctx, &admin, usecase.ListProductsInput{IncludeInactive: true})
	require.NoError(t, err)
}

func TestCatalogService_GetProduct_WithReviewSummary(t *testing.T) {
	service, productRepo, reviewRepo, _ := newCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Turntable", IsActive: true,
	}, nil)
	reviewRepo.EXPECT().AverageRating(ctx, productID).Return(4.5, nil)
	reviewRepo.EXPECT().ListByProduct(ctx, productID, 0, 1).Return(nil, 12, nil)

	output, err := service.GetProduct(ctx, nil, productID)
	require.NoError(t, err)
	assert.Equal(t, productID, output.Product.ID)
	assert.Equal(t, 4.5, output.AverageRating)
	assert.EqualValues(t, 12, output.ReviewCount)
}

func TestCatalogService_GetProduct_InactiveHiddenFromPublic(t *testing.T) {
	service, productRepo, _, _ := newCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Retired", IsActive: false,
	}, nil)

	output, err := service.GetProduct(ctx, nil, productID)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	service, productRepo, _, authorizer := newCatalogService(t)

	ctx := context.Background()
	admin := adminActor()

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := service.CreateProduct(ctx, admin, usecase.CreateProductInput{
		Name:     "Amplifier",
		Price:    decimal.RequireFromString("249.999"), // Rounded to 2dp on write.
		Stock:    5,
		Category: "audio",
	})
	require.NoError(t, err)
	assert.True(t, product.IsActive)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("250.00")))
}

func TestCatalogService_CreateProduct_NegativePrice(t *testing.T) {
	service, _, _, authorizer := newCatalogService(t)

	admin := adminActor()
	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)

	product, err := service.CreateProduct(context.Background(), admin, usecase.CreateProductInput{
		Name:  "Broken",
		Price: decimal.RequireFromString("-1.00"),
	})
	require.Error(t, err)
	assert.Nil(t, product)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestCatalogService_CreateProduct_Unauthorized(t *testing.T) {
	service, _, _, authorizer := newCatalogService(t)

	customer := customerActor()
	authorizer.EXPECT().Authorize(customer, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	product, err := service.CreateProduct(context.Background(), customer, usecase.CreateProductInput{
		Name:  "Sneaky",
		Price: decimal.RequireFromString("1.00"),
	})
	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_UpdateProduct_PartialUpdate(t *testing.T) {
	service, productRepo, _, authorizer := newCatalogService(t)

	ctx := context.Background()
	admin := adminActor()
	productID := uuid.New()
	newPrice := decimal.RequireFromString("19.99")

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID:       productID,
		Name:     "Cable",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    7,
		IsActive: true,
	}, nil)
	productRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	product, err := service.UpdateProduct(ctx, admin, productID, usecase.UpdateProductInput{
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cable", product.Name) // Untouched.
	assert.True(t, product.Price.Equal(newPrice))
	assert.Equal(t, 7, product.Stock)
}

func TestCatalogService_AdjustStock_ReloadsProduct(t *testing.T) {
	service, productRepo, _, authorizer := newCatalogService(t)

	ctx := context.Background()
	admin := adminActor()
	productID := uuid.New()

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	productRepo.EXPECT().AdjustStock(ctx, productID, 10).Return(nil)
	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{
		ID: productID, Name: "Restocked", Stock: 14, IsActive: true,
	}, nil)

	product, err := service.AdjustStock(ctx, admin, productID, 10)
	require.NoError(t, err)
	assert.Equal(t, 14, product.Stock)
}

func TestCatalogService_AdjustStock_UnknownProduct(t *testing.T) {
	service, productRepo, _, authorizer := newCatalogService(t)

	ctx := context.Background()
	admin := adminActor()
	productID := uuid.New()

	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	productRepo.EXPECT().AdjustStock(ctx, productID, -2).Return(repository.ErrProductNotFound)

	product, err := service.AdjustStock(ctx, admin, productID, -2)
	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
