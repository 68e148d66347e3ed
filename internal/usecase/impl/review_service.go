package impl

import (
	"context"
	"log/slog"

	"blitzshop/config"
	deliverycontext "blitzshop/internal/delivery/context"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/domain/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	authorizer  service.Authorizer
	config      *config.Config
	logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		authorizer:  authorizer,
		config:      cfg,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProductReviews returns a page of a product's reviews with the
// aggregate rating.
func (srv *reviewService) ListProductReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (*usecase.ReviewListOutput, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	page, pageSize, offset := normalizePaging(srv.config, page, pageSize)

	reviews, total, err := srv.reviewRepo.ListByProduct(ctx, productID, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	avg, err := srv.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute average rating")
	}

	return &usecase.ReviewListOutput{
		Reviews:       reviews,
		Total:         total,
		AverageRating: avg,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// CreateReview adds the actor's review of a product.
func (srv *reviewService) CreateReview(ctx context.Context, actor service.Actor, input usecase.CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	review := &entity.Review{
		ProductID: product.ID,
		UserID:    actor.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, domainerrors.ErrReviewAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review created",
		slog.String("reviewId", review.ID.String()),
		slog.String("productId", product.ID.String()),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// UpdateReview modifies a review. Only the author may edit it.
func (srv *reviewService) UpdateReview(ctx context.Context, actor service.Actor, reviewID uuid.UUID, input usecase.UpdateReviewInput) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionWrite, service.Resource{Kind: "review", OwnerID: review.UserID}); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to update review")
	}

	return review, nil
}

// DeleteReview removes a review. The author or an admin may delete it.
func (srv *reviewService) DeleteReview(ctx context.Context, actor service.Actor, reviewID uuid.UUID) error {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return errors.Wrap(err, "failed to find review")
	}

	if err := srv.authorizer.Authorize(actor, service.ActionWrite, service.Resource{Kind: "review", OwnerID: review.UserID}); err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return errors.Wrap(err, "failed to delete review")
	}

	return nil
}
