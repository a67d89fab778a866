package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 120_000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// HashPassword derives a PBKDF2-HMAC-SHA256 hash of password.
// An empty saltHex generates a fresh 16-byte salt. Both values are returned hex encoded.
// saltHex must be valid hex; anything else is a programming error and panics.
func HashPassword(password, saltHex string) (string, string) {
	var salt []byte
	if saltHex == "" {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			panic(fmt.Sprintf("generate salt: %v", err))
		}
	} else {
		var err error
		salt, err = hex.DecodeString(saltHex)
		if err != nil {
			panic(fmt.Sprintf("decode salt: %v", err))
		}
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(salt), hex.EncodeToString(hash)
}

// VerifyPassword recomputes the hash for password and compares it in constant time.
func VerifyPassword(password, saltHex, hashHex string) bool {
	_, computed := HashPassword(password, saltHex)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashHex)) == 1
}

// RandomHex returns n random bytes hex encoded (2n characters).
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RandomToken returns n random bytes in unpadded URL-safe base64, for cookies and tokens.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
