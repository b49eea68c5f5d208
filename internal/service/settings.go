package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/upload"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type SettingsService struct {
	Repo  *repo.GormRepo
	Files *upload.Store
}

func (s *SettingsService) Get(ctx context.Context) (*models.StoreSettings, error) {
	return s.Repo.GetSettings(ctx)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func (s *SettingsService) Update(ctx context.Context, req transport.SettingsRequest, qris *multipart.FileHeader) (*models.StoreSettings, error) {
	st, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.TaxPercent != nil {
		if *req.TaxPercent < 0 || *req.TaxPercent > 100 {
			return nil, fail(ErrValidation, "taxPercent must be between 0 and 100")
		}
		st.TaxPercent = *req.TaxPercent
	}
	setString(&st.BankName, req.BankName)
	setString(&st.BankAccountNumber, req.BankAccountNumber)
	setString(&st.BankAccountName, req.BankAccountName)
	setString(&st.EWalletName, req.EWalletName)
	setString(&st.EWalletNumber, req.EWalletNumber)
	setBool(&st.CODEnabled, req.CODEnabled)
	setBool(&st.BankTransferEnabled, req.BankTransferEnabled)
	setBool(&st.EWalletEnabled, req.EWalletEnabled)
	setBool(&st.QRISEnabled, req.QRISEnabled)

	if !st.CODEnabled && !st.BankTransferEnabled && !st.EWalletEnabled && !st.QRISEnabled {
		return nil, fail(ErrValidation, "at least one payment method must stay enabled")
	}

	oldQRIS := st.QRISImageURL
	if qris != nil {
		p, err := s.Files.Save(qris, upload.FolderQRIS)
		if err != nil {
			return nil, uploadError(err)
		}
		st.QRISImageURL = p
	}

	if err := s.Repo.SaveSettings(ctx, st); err != nil {
		return nil, err
	}
	if oldQRIS != st.QRISImageURL && upload.IsLocal(oldQRIS) {
		if err := s.Files.Remove(oldQRIS); err != nil {
			logging.FromContext(ctx).Warn("remove_upload_error", "path", oldQRIS, "error", err)
		}
	}
	return st, nil
}

func (s *SettingsService) ListShippingRates(ctx context.Context) ([]models.ShippingRate, error) {
	return s.Repo.ListShippingRates(ctx)
}

func (s *SettingsService) CreateShippingRate(ctx context.Context, req transport.ShippingRateRequest) (*models.ShippingRate, error) {
	sr := &models.ShippingRate{
		DestinationCity: strings.TrimSpace(req.DestinationCity),
		Zone:            strings.TrimSpace(req.Zone),
		Fee:             req.Fee,
	}
	if sr.DestinationCity == "" {
		return nil, fail(ErrValidation, "destinationCity is required")
	}
	if sr.Fee < 0 {
		return nil, fail(ErrValidation, "fee cannot be negative")
	}
	if err := s.Repo.CreateShippingRate(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *SettingsService) UpdateShippingRate(ctx context.Context, id uint, req transport.ShippingRateRequest) (*models.ShippingRate, error) {
	sr, err := s.Repo.GetShippingRate(ctx, id)
	if err != nil {
		return nil, notFound(err, "shipping rate")
	}
	sr.DestinationCity = strings.TrimSpace(req.DestinationCity)
	sr.Zone = strings.TrimSpace(req.Zone)
	sr.Fee = req.Fee
	if sr.DestinationCity == "" {
		return nil, fail(ErrValidation, "destinationCity is required")
	}
	if sr.Fee < 0 {
		return nil, fail(ErrValidation, "fee cannot be negative")
	}
	if err := s.Repo.SaveShippingRate(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *SettingsService) DeleteShippingRate(ctx context.Context, id uint) error {
	return notFound(s.Repo.DeleteShippingRate(ctx, id), "shipping rate")
}
