// internal/app/system/token/token.go

// Package token issues and verifies the signed session tokens that
// identify chat users. A token is handed out at register/login and
// presented again on every history request and WebSocket connect.
package token

import (
	"errors"
	"time"

	"github.com/campuschat/campuschat/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is malformed, has a
	// bad signature, or was signed with an unexpected method.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultExpiry matches the session length handed out at login.
const DefaultExpiry = 24 * time.Hour

// Claims carries the identity embedded in a session token.
type Claims struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Branch string `json:"branch"`
	jwt.RegisteredClaims
}

// UserID returns the token subject (the user's stable id).
func (c *Claims) UserID() string {
	return c.Subject
}

// Manager signs and verifies session tokens with an HMAC secret.
type Manager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewManager creates a Manager. A zero expiry falls back to
// DefaultExpiry.
func NewManager(secret string, expiry time.Duration, issuer string) *Manager {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Manager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate issues a signed token for user.
func (m *Manager) Generate(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:   user.Name,
		Email:  user.Email,
		Branch: user.Branch,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses and validates a token string, returning its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
