package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize         = 32
	keySize          = 32
	pbkdf2Iterations = 100000
)

// HashPassword returns salt || PBKDF2-HMAC-SHA256(password, salt).
func HashPassword(password string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keySize, sha256.New)
	return append(salt, key...), nil
}

// VerifyPassword reports whether password matches a value produced by HashPassword.
func VerifyPassword(stored []byte, password string) bool {
	if len(stored) != saltSize+keySize {
		return false
	}
	salt, want := stored[:saltSize], stored[saltSize:]
	got := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keySize, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
