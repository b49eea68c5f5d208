package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	"gorm.io/gorm"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func applyAddress(a *models.Address, req transport.AddressRequest) {
	a.Label = strings.TrimSpace(req.Label)
	a.RecipientName = strings.TrimSpace(req.RecipientName)
	a.Phone = strings.TrimSpace(req.Phone)
	a.Street = strings.TrimSpace(req.Street)
	a.City = strings.TrimSpace(req.City)
	a.Province = strings.TrimSpace(req.Province)
	a.PostalCode = strings.TrimSpace(req.PostalCode)
}

// Create makes the first address of a user the default one. A new default
// clears the previous one inside the same transaction.
func (s *AddressService) Create(ctx context.Context, userID uint, req transport.AddressRequest) (*models.Address, error) {
	a := &models.Address{UserID: userID}
	applyAddress(a, req)

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.CountAddresses(ctx, userID)
		if err != nil {
			return err
		}
		a.IsDefault = req.IsDefault || n == 0
		if err := tx.CreateAddress(ctx, a); err != nil {
			return err
		}
		if a.IsDefault {
			return tx.ClearDefaultAddresses(ctx, userID, a.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uint, req transport.AddressRequest) (*models.Address, error) {
	var out *models.Address
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		a, err := tx.GetAddress(ctx, id, userID)
		if err != nil {
			return notFound(err, "address")
		}
		applyAddress(a, req)
		if req.IsDefault {
			a.IsDefault = true
		}
		if err := tx.SaveAddress(ctx, a); err != nil {
			return err
		}
		if a.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, userID, a.ID); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uint) (*models.Address, error) {
	var out *models.Address
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		a, err := tx.GetAddress(ctx, id, userID)
		if err != nil {
			return notFound(err, "address")
		}
		if err := tx.ClearDefaultAddresses(ctx, userID, a.ID); err != nil {
			return err
		}
		if err := tx.SetDefaultAddress(ctx, a.ID); err != nil {
			return err
		}
		a.IsDefault = true
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete refuses addresses referenced by orders. Removing the default
// promotes the oldest remaining address.
func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	return s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		a, err := tx.GetAddress(ctx, id, userID)
		if err != nil {
			return notFound(err, "address")
		}
		used, err := tx.AddressInUse(ctx, a.ID)
		if err != nil {
			return err
		}
		if used {
			return fail(ErrValidation, "address is used by orders")
		}
		if err := tx.DeleteAddress(ctx, a.ID); err != nil {
			return err
		}
		if !a.IsDefault {
			return nil
		}
		next, err := tx.OldestAddress(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.SetDefaultAddress(ctx, next.ID)
	})
}
