package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) CountActiveBooksInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Scopes(models.ActiveBooks).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

// DetachRetiredBooks clears the category of retired books so the category row
// can be removed.
func (r *GormRepo) DetachRetiredBooks(ctx context.Context, categoryID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("category_id = ? AND status = ?", categoryID, models.BookRetired).
		Update("category_id", nil).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
