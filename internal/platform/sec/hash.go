// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Password Hashing

// PasswordCost is the bcrypt work factor applied to every stored password.
const PasswordCost = 10

// MaxPasswordBytes is the largest plaintext bcrypt will accept.
const MaxPasswordBytes = 72

var (
	// ErrHashing is returned when the hasher fails internally.
	ErrHashing = errors.New("sec: password hashing failed")

	// ErrVerification is returned when a stored hash cannot be parsed.
	ErrVerification = errors.New("sec: stored password hash is malformed")
)

// Hasher performs one-way password hashing and verification.
type Hasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) (bool, error)
}

// BcryptHasher implements [Hasher] with a per-record random salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using [PasswordCost].
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: PasswordCost}
}

// NewBcryptHasherWithCost returns a hasher with a custom work factor.
// Tests use bcrypt.MinCost to stay fast.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plain-text password using the bcrypt algorithm.
func (hasher *BcryptHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
//
// A mismatch is reported as (false, nil). Only a hash that bcrypt cannot
// parse produces an error.
//
// bcrypt only reads the first [MaxPasswordBytes] bytes of its input, so a
// longer candidate never matches. The comparison still runs to keep timing
// the same as an ordinary mismatch.
func (hasher *BcryptHasher) Verify(plainTextPassword, existingHash string) (bool, error) {
	overlong := len(plainTextPassword) > MaxPasswordBytes

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil && overlong:
		return false, nil
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrVerification, err)
	}
}

// IsHash reports whether value is already a bcrypt hash.
func IsHash(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
