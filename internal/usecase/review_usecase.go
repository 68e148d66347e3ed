package usecase

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to review a product.
type CreateReviewInput struct {
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

// UpdateReviewInput defines the data for a review update. Nil fields are
// left unchanged.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewListOutput returns one page of a product's reviews with the
// aggregate rating.
type ReviewListOutput struct {
	Reviews       []*entity.Review
	Total         int64
	AverageRating float64
	Page          int
	PageSize      int
}

// ReviewUsecase defines the interface for product review operations.
type ReviewUsecase interface {
	// ListProductReviews returns a page of a product's reviews, newest
	// first, with the product's average rating.
	ListProductReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (*ReviewListOutput, error)

	// CreateReview adds the actor's review of a product. A user reviews a
	// product at most once.
	CreateReview(ctx context.Context, actor service.Actor, input CreateReviewInput) (*entity.Review, error)

	// UpdateReview modifies a review. Customers may edit only their own
	// reviews.
	UpdateReview(ctx context.Context, actor service.Actor, reviewID uuid.UUID, input UpdateReviewInput) (*entity.Review, error)

	// DeleteReview removes a review. Customers may delete only their own
	// reviews; admins may delete any.
	DeleteReview(ctx context.Context, actor service.Actor, reviewID uuid.UUID) error
}
