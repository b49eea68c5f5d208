package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
)

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var items []models.Address
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetAddress returns the address only if it belongs to userID.
func (r *GormRepo) GetAddress(ctx context.Context, id, userID uint) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CountAddresses(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

// ClearDefaultAddresses unsets the default flag on every address of userID
// except keepID.
func (r *GormRepo) ClearDefaultAddresses(ctx context.Context, userID, keepID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		Update("is_default", false).Error
}

func (r *GormRepo) SetDefaultAddress(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.Address{}).Where("id = ?", id).Update("is_default", true).Error
}

func (r *GormRepo) AddressInUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("address_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Address{}, id).Error
}

// OldestAddress is used to promote a new default after the default is removed.
func (r *GormRepo) OldestAddress(ctx context.Context, userID uint) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
