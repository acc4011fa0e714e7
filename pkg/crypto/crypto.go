package crypto

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt hashes without truncation.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("crypto: password exceeds 72 bytes")

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost hashes with an explicit bcrypt cost, clamped to the valid range.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("crypto: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// BurnVerification runs a bcrypt comparison against a throwaway hash and always reports
// false, so rejecting an unknown identity costs as much as rejecting a wrong password.
func BurnVerification(password string) bool {
	dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("unknown-identity"), bcrypt.DefaultCost)
		if err == nil {
			dummyHash = hash
		}
	})
	if dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	}
	return false
}

// IsHash reports whether value parses as a bcrypt hash.
func IsHash(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
