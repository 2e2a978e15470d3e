package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashScheme      = "pbkdf2-sha256"
	hashIterations  = 29000
	hashSaltLength  = 16
	hashKeyLength   = 32
	hashFieldsCount = 4
)

// HashPassword derives a PBKDF2-SHA256 hash of the password with a random
// salt. The full input is used regardless of length. The result is encoded as
// scheme$iterations$salt$digest so that verification can recover the
// parameters the hash was created with.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLength, sha256.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		hashScheme,
		hashIterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks the password against an encoded hash produced by
// HashPassword. A malformed hash verifies as false rather than erroring, so
// corrupt records read like a wrong password.
func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != hashFieldsCount || parts[0] != hashScheme {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)

	return subtle.ConstantTimeCompare(got, want) == 1
}
