package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
)

func (r *GormRepo) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var items []models.ContactMessage
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
