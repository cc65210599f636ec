package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password does not match")

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashPassword returns "base64(salt).base64(argon2id(password))".
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is blank")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltBase64 := base64.StdEncoding.EncodeToString(salt)
	hashBase64 := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s.%s", saltBase64, hashBase64), nil
}

// VerifyPassword checks password against an encoded hash. Bcrypt hashes
// ("$2a$", "$2b$", "$2y$") from imported accounts are also accepted.
func VerifyPassword(password, encodedHash string) error {
	if strings.HasPrefix(encodedHash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}

	parts := strings.Split(encodedHash, ".")
	if len(parts) != 2 {
		return errors.New("invalid encoded hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return fmt.Errorf("failed to decode salt: %w", err)
	}

	hashedPassword, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, uint32(len(hashedPassword)))

	if subtle.ConstantTimeCompare(hash, hashedPassword) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
