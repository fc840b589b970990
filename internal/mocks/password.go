package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskly-api/internal/service/auth"
)

const plainHashPrefix = "plain:"

// ErrPasswordMismatch is returned by PlainPasswords.Compare.
var ErrPasswordMismatch = errors.New("password mismatch")

// PlainPasswords is a reversible stand-in for bcrypt that keeps tests fast.
// It implements both auth.PasswordHasher and auth.PasswordVerifier.
type PlainPasswords struct {
	HashErr error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var (
	_ auth.PasswordHasher   = (*PlainPasswords)(nil)
	_ auth.PasswordVerifier = (*PlainPasswords)(nil)
)

// Hash implements auth.PasswordHasher.
func (p *PlainPasswords) Hash(password string) (string, error) {
	if p.HashErr != nil {
		return "", p.HashErr
	}
	return plainHashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier.
func (p *PlainPasswords) Compare(hashedPassword, password string) error {
	p.CompareCallCount++
	if !strings.HasPrefix(hashedPassword, plainHashPrefix) || hashedPassword[len(plainHashPrefix):] != password {
		return ErrPasswordMismatch
	}
	return nil
}
