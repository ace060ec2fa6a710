// Package password hashes and verifies staff secrets.
//
// New hashes use the configured algorithm. Verification picks the algorithm
// from the stored hash, so accounts keep working after PASSWORD_HASHER changes.
package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	Argon2id = "argon2id"
	Bcrypt   = "bcrypt"
)

// BcryptMaxSecretBytes is the longest secret bcrypt can hash.
const BcryptMaxSecretBytes = 72

var (
	ErrUnknownHashFormat = errors.New("unknown password hash format")
	ErrSecretTooLong     = errors.New("secret exceeds 72 bytes")
)

type Hasher interface {
	Hash(secret string) (string, error)
	Compare(secret, encoded string) (bool, error)
}

// New returns the hasher for algorithm. bcryptCost is ignored for argon2id.
func New(algorithm string, bcryptCost int) (Hasher, error) {
	switch algorithm {
	case Argon2id, "":
		return &Argon2idHasher{Params: argon2id.DefaultParams}, nil
	case Bcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
		return &BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
}

type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h *Argon2idHasher) Hash(secret string) (string, error) {
	return argon2id.CreateHash(secret, h.Params)
}

func (h *Argon2idHasher) Compare(secret, encoded string) (bool, error) {
	return Compare(secret, encoded)
}

type BcryptHasher struct {
	Cost int
}

// Hash refuses secrets longer than BcryptMaxSecretBytes with ErrSecretTooLong.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	if len(secret) > BcryptMaxSecretBytes {
		return "", ErrSecretTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrSecretTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(secret, encoded string) (bool, error) {
	return Compare(secret, encoded)
}

// Compare checks secret against an argon2id or bcrypt hash.
func Compare(secret, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(secret, encoded)
	case isBcrypt(encoded):
		// bcrypt reads only the first 72 bytes; a longer secret never matches.
		if len(secret) > BcryptMaxSecretBytes {
			return false, nil
		}
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(secret))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, ErrUnknownHashFormat
	}
}

func isBcrypt(encoded string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, p) {
			return true
		}
	}
	return false
}
