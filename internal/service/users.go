package service

import (
	"context"
	"strings"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
)

type UserAdminService struct {
	Repo *repo.GormRepo
}

func (s *UserAdminService) List(ctx context.Context, q string) ([]models.User, error) {
	return s.Repo.ListUsers(ctx, strings.TrimSpace(q), 0)
}

// Update changes role and/or account status. Admins cannot demote or
// suspend their own account.
func (s *UserAdminService) Update(ctx context.Context, actorID, id uint, req transport.AdminUserUpdateRequest) (*models.User, error) {
	if req.AccountStatus == nil && req.Role == nil {
		return nil, fail(ErrValidation, "accountStatus or role is required")
	}

	fields := map[string]any{}
	if req.AccountStatus != nil {
		st := models.AccountStatus(*req.AccountStatus)
		if !st.Valid() {
			return nil, fail(ErrValidation, "unknown account status %q", *req.AccountStatus)
		}
		if actorID == id && st != models.AccountActive {
			return nil, fail(ErrValidation, "you cannot deactivate your own account")
		}
		fields["account_status"] = st
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if role != models.RoleAdmin && role != models.RoleUser {
			return nil, fail(ErrValidation, "unknown role %q", *req.Role)
		}
		if actorID == id && role != models.RoleAdmin {
			return nil, fail(ErrValidation, "you cannot remove your own admin role")
		}
		fields["role"] = role
	}

	if _, err := s.Repo.GetUser(ctx, id); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Repo.UpdateUser(ctx, id, fields)
}
