// Package reviews provides database operations for user reviews.
//
// A review is stored under the deterministic key "{userID}_{movieID}", so at
// most one review exists per user and movie whatever its source. Saves are full
// overwrites.
//
// # Usage
//
//	repo := reviews.NewRepository(db)
//	exists, err := repo.ExistsBySourceID(userID, "letterboxd-review-123")
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/filmlog/internal/entities"
)

// ErrReviewNotFound is returned when no review exists for a user and movie.
var ErrReviewNotFound = errors.New("review not found")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetReview retrieves the review a user wrote for a movie.
func (r *Repository) GetReview(userID, movieID string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("id = ?", entities.ReviewKey(userID, movieID)).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsByUserMovie reports whether the user already has a review for the movie, from any source.
func (r *Repository) ExistsByUserMovie(userID, movieID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).
		Where("id = ?", entities.ReviewKey(userID, movieID)).
		Count(&count).Error
	return count > 0, err
}

// ExistsBySourceID reports whether one of the user's reviews carries the given Letterboxd review id.
func (r *Repository) ExistsBySourceID(userID, sourceReviewID string) (bool, error) {
	if sourceReviewID == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&entities.Review{}).
		Where("user_id = ? AND letterboxd_review_id = ?", userID, sourceReviewID).
		Count(&count).Error
	return count > 0, err
}

// SaveReview writes the review, replacing every field of an existing one.
// ID is always recomputed from UserID and MovieID.
func (r *Repository) SaveReview(review *entities.Review) error {
	review.ID = entities.ReviewKey(review.UserID, review.MovieID)
	return r.db.Save(review).Error
}

// DeleteReview removes the user's review for a movie.
func (r *Repository) DeleteReview(userID, movieID string) error {
	result := r.db.Where("id = ?", entities.ReviewKey(userID, movieID)).Delete(&entities.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListByUser returns the user's reviews, newest first.
func (r *Repository) ListByUser(userID string) ([]entities.Review, error) {
	var list []entities.Review
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListByMovie returns every user's review of a movie, newest first.
func (r *Repository) ListByMovie(movieID string) ([]entities.Review, error) {
	var list []entities.Review
	err := r.db.Where("movie_id = ?", movieID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// CountBySource returns how many of the user's reviews came from the given source.
func (r *Repository) CountBySource(userID string, source entities.ReviewSource) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).
		Where("user_id = ? AND source = ?", userID, source).
		Count(&count).Error
	return count, err
}
