// Package tokens issues and verifies the signed session token carried in the
// bukucerdas_token cookie.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type SessionClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the verified identity of the caller.
type Session struct {
	UserID    uint
	Username  string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (s Session) IsAdmin() bool { return s.Role == "admin" }

func CreateToken(s Session, secret []byte, now time.Time) (string, time.Time, error) {
	exp := now.Add(SessionTTL)
	claims := SessionClaims{
		UserID:   s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(s.UserID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func Verify(tokenStr string, secret []byte) (Session, error) {
	if tokenStr == "" {
		return Session{}, ErrInvalidToken
	}

	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 || claims.Role == "" {
		return Session{}, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	s := Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
