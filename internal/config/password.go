package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt would truncate.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordConfig hashes and verifies account passwords.
type PasswordConfig struct {
	BcryptCost int
	// Pepper is an optional server secret mixed in with HMAC-SHA256 before bcrypt.
	Pepper string
}

func NewPasswordConfig(cost int, pepper string) (*PasswordConfig, error) {
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}
	return &PasswordConfig{BcryptCost: cost, Pepper: pepper}, nil
}

// secret is what bcrypt sees. The HMAC digest keeps a peppered password inside
// the bcrypt limit whatever the pepper length.
func (c *PasswordConfig) secret(pw string) []byte {
	if c.Pepper == "" {
		return []byte(pw)
	}
	mac := hmac.New(sha256.New, []byte(c.Pepper))
	mac.Write([]byte(pw))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	if len(pw) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword(c.secret(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	if len(pw) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.secret(pw)) == nil
}

// NeedsRehash reports whether storedHash was made with a different cost than
// the current one.
func (c *PasswordConfig) NeedsRehash(storedHash string) bool {
	cost, err := bcrypt.Cost([]byte(storedHash))
	return err != nil || cost != c.BcryptCost
}
