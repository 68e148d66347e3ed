package postgres

import (
	"context"

	"blitzshop/internal/domain/entity"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review. The unique index on (user, product)
// enforces one review per user per product.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isCheckConstraintViolation(err) {
			return errors.Wrap(err, "review failed validation")
		}

		return errors.Wrap(err, "failed to create review")
	}

	// Update the entity with generated values
	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Update modifies an existing review's rating and comment.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// FindByID retrieves a review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by ID")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByUserAndProduct retrieves the user's review of a product, if any.
func (repo *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by user and product")
	}

	return toReviewDomain(&reviewM), nil
}

// ListByProduct retrieves a page of a product's reviews, newest first.
func (repo *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*entity.Review, int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count reviews")
	}

	var reviewModels []*model.ReviewModel
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviewModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list reviews by product")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, total, nil
}

// AverageRating returns the mean rating of a product, 0 when unreviewed.
func (repo *reviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg *float64

	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("AVG(rating)").
		Where("product_id = ?", productID).
		Scan(&avg).Error; err != nil {
		return 0, errors.Wrap(err, "failed to compute average rating")
	}

	if avg == nil {
		return 0, nil
	}

	return *avg, nil
}

// toReviewDomain maps the persistence model to a pure domain entity.
func toReviewDomain(reviewM *model.ReviewModel) *entity.Review {
	return &entity.Review{
		ID:        reviewM.ID,
		ProductID: reviewM.ProductID,
		UserID:    reviewM.UserID,
		Rating:    reviewM.Rating,
		Comment:   reviewM.Comment,
		CreatedAt: reviewM.CreatedAt,
		UpdatedAt: reviewM.UpdatedAt,
	}
}

// fromReviewDomain maps a domain entity to the persistence model.
func fromReviewDomain(review *entity.Review) *model.ReviewModel {
	return &model.ReviewModel{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
