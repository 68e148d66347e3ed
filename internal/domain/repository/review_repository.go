package repository

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when the user already reviewed the product.
	ErrDuplicateReview = errors.New("review already exists")
)

// ReviewRepository defines the interface for product review persistence.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// Update modifies an existing review's rating and comment.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a review by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindByUserAndProduct retrieves the user's review of a product, if any.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// ListByProduct retrieves a page of a product's reviews, newest first,
	// with the total count.
	ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*entity.Review, int64, error)

	// AverageRating returns the mean rating of a product, 0 when unreviewed.
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)
}
