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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewService(t *testing.T) (*reviewService, *mockRepo.MockReviewRepository, *mockRepo.MockProductRepository, *mockSvc.MockAuthorizer) {
	t.Helper()

	reviewRepo := mockRepo.NewMockReviewRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	authorizer := mockSvc.NewMockAuthorizer(t)
	service := NewReviewService(reviewRepo, productRepo, authorizer, &config.Config{}, slog.Default())

	return service.(*reviewService), reviewRepo, productRepo, authorizer
}

func TestReviewService_ListProductReviews(t *testing.T) {
	service, reviewRepo, productRepo, _ := newReviewService(t)

	ctx := context.Background()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{ID: productID, IsActive: true}, nil)
	reviewRepo.EXPECT().ListByProduct(ctx, productID, 0, 20).Return([]*entity.Review{
		{ID: uuid.New(), ProductID: productID, Rating: 5},
		{ID: uuid.New(), ProductID: productID, Rating: 3},
	}, 2, nil)
	reviewRepo.EXPECT().AverageRating(ctx, productID).Return(4.0, nil)

	output, err := service.ListProductReviews(ctx, productID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, output.Reviews, 2)
	assert.Equal(t, 4.0, output.AverageRating)
	assert.EqualValues(t, 2, output.Total)
}

func TestReviewService_ListProductReviews_UnknownProduct(t *testing.T) {
	service, _, productRepo, _ := newReviewService(t)

	ctx := context.Background()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(nil, repository.ErrProductNotFound)

	output, err := service.ListProductReviews(ctx, productID, 0, 0)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	service, reviewRepo, productRepo, _ := newReviewService(t)

	ctx := context.Background()
	actor := customerActor()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{ID: productID, IsActive: true}, nil)
	reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Run(func(ctx context.Context, review *entity.Review) {
			review.ID = uuid.New()
		}).
		Return(nil)

	review, err := service.CreateReview(ctx, actor, usecase.CreateReviewInput{
		ProductID: productID,
		Rating:    4,
		Comment:   "Solid build quality.",
	})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, review.UserID)
	assert.Equal(t, 4, review.Rating)
}

func TestReviewService_CreateReview_DuplicatePerUser(t *testing.T) {
	service, reviewRepo, productRepo, _ := newReviewService(t)

	ctx := context.Background()
	actor := customerActor()
	productID := uuid.New()

	productRepo.EXPECT().FindByID(ctx, productID).Return(&entity.Product{ID: productID, IsActive: true}, nil)
	reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Return(repository.ErrDuplicateReview)

	review, err := service.CreateReview(ctx, actor, usecase.CreateReviewInput{
		ProductID: productID,
		Rating:    5,
	})
	require.Error(t, err)
	assert.Nil(t, review)
	assert.ErrorIs(t, err, domainerrors.ErrReviewAlreadyExists)
}

func TestReviewService_CreateReview_RatingOutOfRange(t *testing.T) {
	service, _, _, _ := newReviewService(t)

	review, err := service.CreateReview(context.Background(), customerActor(), usecase.CreateReviewInput{
		ProductID: uuid.New(),
		Rating:    6,
	})
	require.Error(t, err)
	assert.Nil(t, review)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestReviewService_UpdateReview_ForeignReviewForbidden(t *testing.T) {
	service, reviewRepo, _, authorizer := newReviewService(t)

	ctx := context.Background()
	actor := customerActor()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: uuid.New(), Rating: 2}

	reviewRepo.EXPECT().FindByID(ctx, reviewID).Return(review, nil)
	authorizer.EXPECT().Authorize(actor, mock.Anything, mock.Anything).Return(domainerrors.ErrForbidden)

	newRating := 5
	got, err := service.UpdateReview(ctx, actor, reviewID, usecase.UpdateReviewInput{Rating: &newRating})
	require.Error(t, err)
	assert.Nil(t, got)
	// Reviews are public content, so the refusal is explicit, not a 404.
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestReviewService_DeleteReview_AdminMayDeleteAny(t *testing.T) {
	service, reviewRepo, _, authorizer := newReviewService(t)

	ctx := context.Background()
	admin := adminActor()
	reviewID := uuid.New()
	review := &entity.Review{ID: reviewID, UserID: uuid.New(), Rating: 1}

	reviewRepo.EXPECT().FindByID(ctx, reviewID).Return(review, nil)
	authorizer.EXPECT().Authorize(admin, mock.Anything, mock.Anything).Return(nil)
	reviewRepo.EXPECT().Delete(ctx, reviewID).Return(nil)

	require.NoError(t, service.DeleteReview(ctx, admin, reviewID))
}
