// Package auth issues and verifies bearer tokens and authenticates requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xzzpig/postboard/internal/core/errs"
)

// ErrInvalidToken is returned by Verify for any token that cannot be trusted.
const ErrInvalidToken = errs.ConstError("invalid or expired token")

// DefaultTTL is the lifetime of an access token.
const DefaultTTL = time.Hour

// Identity is the authenticated caller carried by a token.
type Identity struct {
	ID       int64
	Email    string
	Username string
}

// Claims is the JWT payload.
type Claims struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec creates a codec. A non-positive ttl falls back to DefaultTTL.
func NewTokenCodec(key []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenCodec{key: key, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of c that reads the time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{key: c.key, ttl: c.ttl, now: now}
}

// Issue signs a token for id valid for the codec's TTL.
func (c *TokenCodec) Issue(id Identity) (string, error) {
	now := c.now()
	claims := Claims{
		ID:       id.ID,
		Email:    id.Email,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its identity.
// Bad signatures, other algorithms, malformed input and expired tokens all yield ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	return Identity{ID: claims.ID, Email: claims.Email, Username: claims.Username}, nil
}
