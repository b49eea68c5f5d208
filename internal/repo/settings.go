package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

// DefaultSettings is what the singleton row starts with.
func DefaultSettings() models.StoreSettings {
	return models.StoreSettings{
		TaxPercent:          11,
		CODEnabled:          true,
		BankTransferEnabled: true,
		EWalletEnabled:      true,
		QRISEnabled:         true,
	}
}

// GetSettings returns the singleton row, creating it with defaults if absent.
func (r *GormRepo) GetSettings(ctx context.Context) (*models.StoreSettings, error) {
	var s models.StoreSettings
	if err := r.DB.WithContext(ctx).Order("id ASC").Attrs(DefaultSettings()).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) SaveSettings(ctx context.Context, s *models.StoreSettings) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) ListShippingRates(ctx context.Context) ([]models.ShippingRate, error) {
	var items []models.ShippingRate
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetShippingRate(ctx context.Context, id uint) (*models.ShippingRate, error) {
	var sr models.ShippingRate
	if err := r.DB.WithContext(ctx).First(&sr, id).Error; err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *GormRepo) CreateShippingRate(ctx context.Context, sr *models.ShippingRate) error {
	return r.DB.WithContext(ctx).Create(sr).Error
}

func (r *GormRepo) SaveShippingRate(ctx context.Context, sr *models.ShippingRate) error {
	return r.DB.WithContext(ctx).Save(sr).Error
}

func (r *GormRepo) DeleteShippingRate(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.ShippingRate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// escapedCity lower-cases destination_city and escapes LIKE wildcards with '!'.
const escapedCity = "REPLACE(REPLACE(REPLACE(LOWER(destination_city), '!', '!!'), '%', '!%'), '_', '!_')"

// MatchShippingRate finds the first rate, by id, whose destination city is
// contained in city, case-insensitively. Wildcards stored in a city name
// match only themselves.
func (r *GormRepo) MatchShippingRate(ctx context.Context, city string) (*models.ShippingRate, error) {
	var sr models.ShippingRate
	if err := r.DB.WithContext(ctx).
		Where("destination_city <> '' AND LOWER(?) LIKE '%' || "+escapedCity+" || '%' ESCAPE '!'", city).
		Order("id ASC").
		First(&sr).Error; err != nil {
		return nil, err
	}
	return &sr, nil
}
