package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ReviewExists(ctx context.Context, userID, bookID uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *GormRepo) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormRepo) ListReviews(ctx context.Context, bookID uint) ([]models.Review, error) {
	var items []models.Review
	if err := r.DB.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "username", "photo_url") }).
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AverageRating aggregates every review of bookID; zero when there are none.
func (r *GormRepo) AverageRating(ctx context.Context, bookID uint) (float64, error) {
	var avg float64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}
