package session

import (
	"errors"
	"strings"
	"time"

	"imagen-gateway/internal/core"

	"github.com/golang-jwt/jwt/v4"
)

const SecureCookiePrefix = "__Secure-"

var (
	ErrMissingSecret = errors.New("session secret is not configured")
	ErrInvalidToken  = errors.New("invalid session token")
)

// Issue 簽發 HS256 session token
func Issue(secret string, user core.SessionUser, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	claims := core.Claims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse 驗證簽章與有效期限，只接受 HS256
func Parse(secret, token string) (*core.SessionUser, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &core.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		return nil, ErrInvalidToken
	}
	return &core.SessionUser{Email: email, Name: claims.Name, Picture: claims.Picture}, nil
}
