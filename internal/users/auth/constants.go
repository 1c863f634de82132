// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"

// # Credential Constraints

const (
	// MinPasswordLength is the shortest plaintext accepted before hashing.
	MinPasswordLength = 12

	// MaxPasswordBytes is the longest plaintext the hasher can digest.
	MaxPasswordBytes = sec.MaxPasswordBytes

	// MaxUsernameLength bounds the stored username in characters.
	MaxUsernameLength = 64
)

// # Field Identifiers

// Field names used in validation details and JSON payloads.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldToken    = "token"
	FieldUser     = "user"
)
