// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential store, the authentication strategies,
and the HTTP endpoints built on top of them.

# Architecture

  - User: the persisted identity. Its password is only ever held as a hash
    once it has passed through the store.
  - CredentialStore: normalizes, validates and hashes before any repository
    sees a record.
  - Strategies: CredentialStrategy (username + password) and TokenStrategy
    (bearer token), both producing an [authn.Outcome].
  - Handler: register, login and the protected user listing.
*/
package auth

import (
	"strings"
	"time"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
//
// A plaintext password can only enter through [User.SetPassword]; it is
// held outside the persisted fields until the store hashes it.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role,omitempty"`
	CreatedAt    time.Time    `json:"-"`

	pendingPassword string
	passwordChanged bool
	readOnly        bool
}

// SetPassword stages a new plaintext password. The next store write hashes
// it and clears the staged value.
func (user *User) SetPassword(plainTextPassword string) {
	user.pendingPassword = plainTextPassword
	user.passwordChanged = true
}

// PasswordChanged reports whether a plaintext password is staged.
func (user *User) PasswordChanged() bool {
	return user.passwordChanged
}

// clearPendingPassword drops the staged plaintext after hashing.
func (user *User) clearPendingPassword() {
	user.pendingPassword = ""
	user.passwordChanged = false
}

// ReadOnly reports whether the record came from the user cache. Cached
// records carry no password hash and cannot be saved.
func (user *User) ReadOnly() bool {
	return user.readOnly
}

// TokenIdentity implements [sec.TokenSubject].
func (user *User) TokenIdentity() (string, string, string) {
	return user.ID, user.Username, string(user.Role)
}

// Identity projects the user onto the principal attached to requests.
func (user *User) Identity() *authn.Identity {
	return &authn.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

// Summary projects the user for listings, without any credential data.
func (user *User) Summary() UserSummary {
	return UserSummary{ID: user.ID, Username: user.Username}
}

// clone returns a copy safe to hand across the repository boundary.
func (user *User) clone() *User {
	copied := *user
	return &copied
}

// cacheEntry returns the copy handed to a [UserCache], without the hash.
func (user *User) cacheEntry() *User {
	entry := user.clone()
	entry.PasswordHash = ""
	entry.pendingPassword = ""
	entry.passwordChanged = false
	return entry
}

// UserSummary is the listing projection of a [User].
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NormalizeUsername returns the canonical stored form of a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
