package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateNotification(ctx context.Context, n *models.AdminNotification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *GormRepo) ListNotifications(ctx context.Context, limit int) ([]models.AdminNotification, error) {
	var items []models.AdminNotification
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UnreadNotifications(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.AdminNotification{}).Where("read = ?", false).Count(&n).Error
	return n, err
}

func (r *GormRepo) MarkNotificationRead(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.AdminNotification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.AdminNotification{}).Where("read = ?", false).Update("read", true)
	return res.RowsAffected, res.Error
}
