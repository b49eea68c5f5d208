package service

import (
	"context"
	"testing"
	"time"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/testutil"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("service-test-secret")

func (env *testEnv) auth() *AuthService {
	return &AuthService{Repo: env.Repo, Events: env.Events, JWTSecret: testSecret, Now: func() time.Time { return fixedNow }}
}

func registerReq(username, email string) transport.RegisterRequest {
	return transport.RegisterRequest{Name: "Nama " + username, Username: username, Email: email, Password: "rahasia123"}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.auth()

	u, err := svc.Register(ctx, registerReq("kartika", " Kartika@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "kartika@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.AccountActive, u.AccountStatus)
	assert.NotEqual(t, "rahasia123", u.PasswordHash)

	_, err = svc.Register(ctx, registerReq("kartika", "lain@example.com"))
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, registerReq("lain", "kartika@example.com"))
	require.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, []string{events.TypeUserRegistered}, env.Events.Types())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.auth()
	svc.Now = nil
	u, err := svc.Register(ctx, registerReq("lukman", "Lukman@Example.com"))
	require.NoError(t, err)
	require.Equal(t, "lukman@example.com", u.Email)

	for _, id := range []string{"lukman", "lukman@example.com", "Lukman@Example.com", " LUKMAN@EXAMPLE.COM "} {
		res, err := svc.Login(ctx, id, "rahasia123")
		require.NoError(t, err, id)
		assert.Equal(t, u.ID, res.User.ID)
		assert.WithinDuration(t, time.Now().Add(tokens.SessionTTL), res.ExpiresAt, time.Minute)
		require.NotNil(t, res.User.LastLoginAt)

		s, err := tokens.Verify(res.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, u.ID, s.UserID)
		assert.Equal(t, "user", s.Role)
	}

	_, err = svc.Login(ctx, "lukman", "salah")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "rahasia123")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Repo.UpdateUser(ctx, u.ID, map[string]any{"account_status": models.AccountSuspended})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "lukman", "rahasia123")
	require.ErrorIs(t, err, ErrForbidden)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountSuspended, me.AccountStatus)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.auth()
	svc := &ProfileService{Repo: env.Repo, Files: env.Files}

	u, err := auth.Register(ctx, registerReq("maya", "maya@example.com"))
	require.NoError(t, err)
	_, err = auth.Register(ctx, registerReq("nadia", "nadia@example.com"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, u.ID, transport.ProfileRequest{Name: "Maya", Email: "NADIA@example.com"})
	require.ErrorIs(t, err, ErrConflict)

	got, err := svc.Update(ctx, u.ID, transport.ProfileRequest{Name: "Maya Sari", Email: "maya@example.com", Phone: "0811"})
	require.NoError(t, err)
	assert.Equal(t, "Maya Sari", got.Name)
	assert.Equal(t, "0811", got.Phone)

	got, err = svc.UpdatePhoto(ctx, u.ID, testutil.FileHeader(t, "me.jpg", []byte("jpg")))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profil/1773480600000-me.jpg", got.PhotoURL)

	err = svc.ChangePassword(ctx, u.ID, transport.PasswordRequest{CurrentPassword: "salah", NewPassword: "barubaru1"})
	require.ErrorIs(t, err, ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, transport.PasswordRequest{CurrentPassword: "rahasia123", NewPassword: "barubaru1"}))

	_, err = auth.Login(ctx, "maya", "barubaru1")
	require.NoError(t, err)
}
