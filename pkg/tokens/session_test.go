package tokens

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestCreateToken_VerifyReturnsClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, exp, err := CreateToken(Session{UserID: 7, Username: "budi", Email: "budi@example.com", Role: "admin"}, testSecret, now)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), exp, time.Second)

	s, err := Verify(tok, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 7, s.UserID)
	assert.Equal(t, "budi", s.Username)
	assert.Equal(t, "budi@example.com", s.Email)
	assert.True(t, s.IsAdmin())
	assert.WithinDuration(t, exp, s.ExpiresAt, time.Second)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	valid, _, err := CreateToken(Session{UserID: 1, Username: "u", Role: "user"}, testSecret, time.Now())
	require.NoError(t, err)
	expired, _, err := CreateToken(Session{UserID: 1, Username: "u", Role: "user"}, testSecret, time.Now().Add(-8*24*time.Hour))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: 1, Role: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "empty", token: "", secret: testSecret},
		{name: "garbage", token: "not-a-jwt", secret: testSecret},
		{name: "wrong secret", token: valid, secret: []byte("other")},
		{name: "expired", token: expired, secret: testSecret},
		{name: "alg none", token: unsigned, secret: testSecret},
		{name: "no expiry", token: noExp, secret: testSecret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Verify(tt.token, tt.secret)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSessionCookie_Attributes(t *testing.T) {
	t.Parallel()

	ck := SessionCookie("abc", true)
	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 7*24*60*60, ck.MaxAge)

	gone := ExpiredSessionCookie(false)
	assert.Equal(t, -1, gone.MaxAge)
	assert.Empty(t, gone.Value)
	assert.False(t, gone.Secure)
}
