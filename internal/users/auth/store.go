// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/apperr"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/validate"
	"github.com/nickbrenn/Nick-Brennan-Auth/pkg/uuid"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Implementations never hash or normalize; they persist exactly what the
// [CredentialStore] hands them.
type UserRepository interface {

	/*
		Insert persists a brand-new user account.

		Returns:
		  - error: ErrDuplicateUsername on a username collision
	*/
	Insert(ctx context.Context, user *User) error

	/*
		Update persists username, password hash and role of an existing account.

		Returns:
		  - error: ErrUserNotFound, ErrDuplicateUsername or storage failures
	*/
	Update(ctx context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: ErrUserNotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given normalized username.

		Returns:
		  - error: ErrUserNotFound or storage failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		List returns every account ordered by creation time.
	*/
	List(ctx context.Context) ([]*User, error)
}

// # Credential Store

// CredentialStore owns user records and the hash-before-persist rule.
type CredentialStore struct {
	repository UserRepository
	hasher     sec.Hasher
}

// NewCredentialStore constructs a [CredentialStore].
func NewCredentialStore(repository UserRepository, hasher sec.Hasher) *CredentialStore {
	return &CredentialStore{repository: repository, hasher: hasher}
}

/*
Create registers a new account.

Description: Normalizes the username, validates both fields, hashes the
password exactly once, and inserts the record.

Returns:
  - *User: The persisted account (PasswordHash set, no plaintext retained)
  - error: VALIDATION_ERROR, CONFLICT, or a wrapped internal failure
*/
func (store *CredentialStore) Create(ctx context.Context, username, plainTextPassword string) (*User, error) {
	user := &User{
		ID:       uuid.New(),
		Username: NormalizeUsername(username),
		Role:     sec.RoleMember,
	}
	user.SetPassword(plainTextPassword)

	if err := store.prepare(user); err != nil {
		return nil, err
	}

	if err := store.repository.Insert(ctx, user); err != nil {
		return nil, mapWriteError(err)
	}

	return user, nil
}

/*
Save persists changes to an existing account.

Description: Runs the same pre-persist step as Create. The password is
re-hashed only if [User.SetPassword] was called since the record was loaded;
an unchanged record keeps its stored hash byte for byte. Records served by
the user cache are rejected with [ErrReadOnlyRecord].
*/
func (store *CredentialStore) Save(ctx context.Context, user *User) error {
	user.Username = NormalizeUsername(user.Username)

	if err := store.prepare(user); err != nil {
		return err
	}

	if err := store.repository.Update(ctx, user); err != nil {
		return mapWriteError(err)
	}

	return nil
}

// FindByUsername looks up an account by username, case-insensitively.
func (store *CredentialStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return store.repository.FindByUsername(ctx, NormalizeUsername(username))
}

// FindByID looks up an account by its ID.
func (store *CredentialStore) FindByID(ctx context.Context, id string) (*User, error) {
	return store.repository.FindByID(ctx, id)
}

// ListAll returns every account ordered by creation time.
func (store *CredentialStore) ListAll(ctx context.Context) ([]*User, error) {
	users, err := store.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth_store_list_failed: %w", err)
	}
	return users, nil
}

// # Pre-persist Step

// prepare validates the record and hashes a staged password if there is one.
//
// After prepare returns nil, user.PasswordHash is a bcrypt hash and no
// plaintext is held on the record.
func (store *CredentialStore) prepare(user *User) error {
	if user.ReadOnly() {
		return fmt.Errorf("auth_store_prepare_failed: %w", ErrReadOnlyRecord)
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, user.Username).
		MaxLen(FieldUsername, user.Username, MaxUsernameLength).
		Custom(FieldRole, !user.Role.Valid(), "Unknown role")

	if user.PasswordChanged() {
		validator.Present(FieldPassword, user.pendingPassword).
			MinLen(FieldPassword, user.pendingPassword, MinPasswordLength).
			MaxBytes(FieldPassword, user.pendingPassword, MaxPasswordBytes)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if !user.PasswordChanged() {
		if !sec.IsHash(user.PasswordHash) {
			return fmt.Errorf("auth_store_prepare_failed: %w", ErrPlaintextPassword)
		}
		return nil
	}

	hashedPassword, err := store.hasher.Hash(user.pendingPassword)
	if err != nil {
		return fmt.Errorf("auth_store_hash_failed: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.clearPendingPassword()
	return nil
}

// mapWriteError turns repository sentinels into client-facing errors.
func mapWriteError(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return apperr.Conflict("Username is already taken", err)
	case errors.Is(err, ErrUserNotFound):
		return apperr.NotFound("User")
	default:
		return fmt.Errorf("auth_store_write_failed: %w", err)
	}
}
