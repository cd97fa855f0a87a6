// Package admin gates administrative actions behind a shared key.
//
// The key is a static shared secret. It keeps casual users away from reset
// and close; it does not authenticate anyone.
package admin

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "admin123"

var ErrInvalidKey = errors.New("invalid admin key")

type Gate struct {
	hash []byte
}

// NewGate hashes key once so the plain key is not kept in memory.
func NewGate(key string) (*Gate, error) {
	if key == "" {
		key = DefaultKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin key: %w", err)
	}
	return &Gate{hash: hash}, nil
}

func (g *Gate) Check(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(key)); err != nil {
		return ErrInvalidKey
	}
	return nil
}
