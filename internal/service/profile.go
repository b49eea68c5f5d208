package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/upload"
	pkg_hash "github.com/bukucerdas/bookstore/pkg/hash"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

type ProfileService struct {
	Repo  *repo.GormRepo
	Files *upload.Store
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uint, req transport.ProfileRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.Repo.EmailTaken(ctx, email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fail(ErrConflict, "email already registered")
	}

	u, err := s.Repo.UpdateUser(ctx, userID, map[string]any{
		"name":  strings.TrimSpace(req.Name),
		"email": email,
		"phone": strings.TrimSpace(req.Phone),
	})
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, fail(ErrConflict, "email already registered")
		}
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *ProfileService) UpdatePhoto(ctx context.Context, userID uint, fh *multipart.FileHeader) (*models.User, error) {
	if fh == nil {
		return nil, fail(ErrValidation, "file is required")
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.Files.Save(fh, upload.FolderProfile)
	if err != nil {
		return nil, uploadError(err)
	}
	u, err := s.Repo.UpdateUser(ctx, userID, map[string]any{"photo_url": p})
	if err != nil {
		_ = s.Files.Remove(p)
		return nil, err
	}
	if upload.IsLocal(current.PhotoURL) && current.PhotoURL != p {
		if err := s.Files.Remove(current.PhotoURL); err != nil {
			logging.FromContext(ctx).Warn("remove_upload_error", "path", current.PhotoURL, "error", err)
		}
	}
	return u, nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, userID uint, req transport.PasswordRequest) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return fail(ErrValidation, "current password is incorrect")
	}
	if len(req.NewPassword) < 8 {
		return fail(ErrValidation, "new password must be at least 8 characters")
	}
	pwHash, err := pkg_hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.Repo.UpdateUser(ctx, userID, map[string]any{"password_hash": pwHash})
	return err
}
