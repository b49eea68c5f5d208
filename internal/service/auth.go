package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	pkg_hash "github.com/bukucerdas/bookstore/pkg/hash"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/tokens"
	"gorm.io/gorm"
)

type AuthService struct {
	Repo      *repo.GormRepo
	Events    events.Publisher
	JWTSecret []byte
	Now       func() time.Time
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func SessionFor(u *models.User) tokens.Session {
	return tokens.Session{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.Repo.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fail(ErrConflict, "username or email already registered")
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:          strings.TrimSpace(req.Name),
		Username:      username,
		Email:         email,
		PasswordHash:  pwHash,
		Phone:         strings.TrimSpace(req.Phone),
		Role:          models.RoleUser,
		AccountStatus: models.AccountActive,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fail(ErrConflict, "username or email already registered")
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, events.TypeUserRegistered, map[string]any{
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.Repo.GetUserByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrUnauthorized, "invalid username/email or password")
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, fail(ErrUnauthorized, "invalid username/email or password")
	}

	switch user.AccountStatus {
	case models.AccountSuspended:
		return nil, fail(ErrForbidden, "account is suspended")
	case models.AccountInactive:
		return nil, fail(ErrForbidden, "account is inactive")
	}

	now := s.now()
	token, exp, err := tokens.CreateToken(SessionFor(user), s.JWTSecret, now)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.TouchLastLogin(ctx, user.ID, now.UTC()); err != nil {
		logging.FromContext(ctx).Warn("touch_last_login_error", "user_id", user.ID, "error", err)
	} else {
		t := now.UTC()
		user.LastLoginAt = &t
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Me reloads the caller so role or status changes show up before the token
// expires.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}
