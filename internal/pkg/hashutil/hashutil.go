package hashutil

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrMismatch      = errors.New("password does not match hash")
)

// maxBcryptInput is the longest input bcrypt accepts.
const maxBcryptInput = 72

// Hasher wraps bcrypt with a fixed cost.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}

// Compare runs in constant time with respect to the password contents.
func (h *Hasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("compare password failed: %w", err)
	}
	return nil
}

// bcryptInput digests passwords longer than bcrypt accepts into a 44-byte
// SHA-256 base64 string. Shorter passwords are used as is.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
