package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: st_<64 hex chars> (32 random bytes).
const tokenSecretBytes = 32

const tokenPrefix = "st_"

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^st_[a-f0-9]{64}$`)
)

// GenerateSessionToken creates a new opaque session token.
// The plaintext goes into the cookie; only its QuickHash is stored
// server-side.
func GenerateSessionToken() (string, error) {
	secret := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return tokenPrefix + hex.EncodeToString(secret), nil
}

// ValidateSessionToken checks the token shape before any store lookup,
// so malformed cookies never reach Redis.
func ValidateSessionToken(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}
