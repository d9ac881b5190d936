package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"hivedesk/internal/models"
)

// DefaultBcryptCost is the work factor used for account passwords.
const DefaultBcryptCost = 12

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(b), nil
}

// Compare fails closed: malformed hashes and any bcrypt error yield false.
func (h *PasswordHasher) Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CheckPassword verifies plain against u's stored hash.
func (h *PasswordHasher) CheckPassword(u models.User, plain string) error {
	if !u.HasPassword() {
		return ErrNoPasswordConfigured
	}
	if !h.Compare(plain, *u.PasswordHash) {
		return ErrAuthFailed
	}
	return nil
}
