// Package password implements credential hashing and verification.
//
// Hash derives a key from the password with PBKDF2-SHA256 and a random salt
// and encodes the pair as base64(salt || key). Verify recomputes the key and
// compares it in constant time; it fails closed on any malformed input.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

const (
	saltSize   = 16
	hashSize   = 32
	iterations = 100_000
)

// Alphabet for generated passwords. Excludes I and l, which read the same
// in most fonts.
const passwordChars = "ABCDEFGHJKLMNOPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz0123456789!@#$%^&*"

// Hash returns base64(salt || derived key) for the given password.
// An empty password is rejected: an unhashable credential must not
// silently turn into a usable account.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	if password == "" {
		return "", fmt.Errorf("%s: %w: password is empty", op, models.ErrInvalidInput)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, hashSize, sha256.New)

	buf := make([]byte, 0, saltSize+hashSize)
	buf = append(buf, salt...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Verify reports whether password matches the stored encoded hash.
// It never returns an error: undecodable or wrongly-sized input yields false.
func Verify(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	if len(raw) != saltSize+hashSize {
		return false
	}
	salt := raw[:saltSize]
	key := pbkdf2.Key([]byte(password), salt, iterations, hashSize, sha256.New)
	return subtle.ConstantTimeCompare(raw[saltSize:], key) == 1
}

// GenerateRandom produces a random password of the given length drawn from
// a fixed alphabet. Lengths below 8 are rejected.
func GenerateRandom(length int) (string, error) {
	const op = "password.GenerateRandom"
	if length < 8 {
		return "", fmt.Errorf("%s: %w: length must be at least 8", op, models.ErrInvalidInput)
	}

	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	chars := make([]byte, length)
	for i, b := range raw {
		chars[i] = passwordChars[int(b)%len(passwordChars)]
	}
	return string(chars), nil
}
