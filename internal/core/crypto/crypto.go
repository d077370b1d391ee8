// Package crypto provides password hashing and signing key derivation.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"

	"github.com/xzzpig/postboard/internal/core/errs"
)

// ErrMismatchedPassword is returned by Compare when the password does not match the hash.
const ErrMismatchedPassword = errs.ConstError("password does not match")

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
// - If cost is 0: DefaultCost is used
// - If cost is outside [bcrypt.MinCost, bcrypt.MaxCost]: an error is returned
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of password. The salt is random, so two calls differ.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks password against hash.
// Returns ErrMismatchedPassword on a wrong password and a wrapped error for a malformed hash.
func (h *PasswordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatchedPassword
	default:
		return fmt.Errorf("failed to compare password: %w", err)
	}
}

// SigningKey derives the HMAC key for access tokens.
// - If secret is non-empty: it is hashed using SHA-256 to produce a 32-byte key
// - If secret is empty: a random 32-byte key is generated, so tokens do not survive a restart
func SigningKey(secret string) ([]byte, error) {
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		return sum[:], nil
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return key, nil
}
