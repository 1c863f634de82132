// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	requestutil "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/request"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/validate"
)

// # Contracts

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// UserFinder is the read side of the [CredentialStore] the strategies need.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// # Credential Strategy

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialStrategy authenticates a username and password submitted as a
// JSON body.
type CredentialStrategy struct {
	users  UserFinder
	hasher sec.Hasher

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialStrategy constructs a [CredentialStrategy].
func NewCredentialStrategy(users UserFinder, hasher sec.Hasher) *CredentialStrategy {
	return &CredentialStrategy{users: users, hasher: hasher}
}

// Authenticate implements [authn.Strategy].
//
// A body that is not valid JSON, or lacks either field, is a client fault
// and yields a Failed outcome carrying a validation error.
func (strategy *CredentialStrategy) Authenticate(request *http.Request) authn.Outcome {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return authn.Failed(err)
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Present(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return authn.Failed(err)
	}

	return strategy.Verify(request.Context(), input.Username, input.Password)
}

/*
Verify checks a username and password pair against the store.

Description: An unknown username still costs one bcrypt comparison so that
response timing does not reveal which usernames exist.

Returns:
  - authn.Outcome: Authenticated, Rejected (no_such_user, bad_credentials),
    or Failed on storage or hashing faults
*/
func (strategy *CredentialStrategy) Verify(ctx context.Context, username, password string) authn.Outcome {
	user, err := strategy.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			strategy.burnComparison(password)
			return authn.Rejected(authn.ReasonNoSuchUser)
		}
		return authn.Failed(fmt.Errorf("credential_lookup_failed: %w", err))
	}

	matched, err := strategy.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return authn.Failed(fmt.Errorf("credential_verify_failed: %w", err))
	}

	if !matched {
		return authn.Rejected(authn.ReasonBadCredentials)
	}

	return authn.Authenticated(user.Identity())
}

// burnComparison runs one comparison against a throwaway hash.
func (strategy *CredentialStrategy) burnComparison(password string) {
	strategy.dummyOnce.Do(func() {
		strategy.dummyHash, _ = strategy.hasher.Hash("unused-placeholder-password")
	})

	if strategy.dummyHash != "" {
		_, _ = strategy.hasher.Verify(password, strategy.dummyHash)
	}
}

// # Token Strategy

// TokenStrategy authenticates a request carrying "Authorization: Bearer <token>".
type TokenStrategy struct {
	users    UserFinder
	verifier TokenVerifier
}

// NewTokenStrategy constructs a [TokenStrategy].
func NewTokenStrategy(users UserFinder, verifier TokenVerifier) *TokenStrategy {
	return &TokenStrategy{users: users, verifier: verifier}
}

// Authenticate implements [authn.Strategy].
//
// The identity is reloaded from the store on every request, so a token for
// a deleted account is rejected even while its signature is still valid.
func (strategy *TokenStrategy) Authenticate(request *http.Request) authn.Outcome {
	tokenString, ok := requestutil.BearerToken(request)
	if !ok {
		if request.Header.Get("Authorization") == "" {
			return authn.Rejected(authn.ReasonMissingToken)
		}
		return authn.Rejected(authn.ReasonInvalidToken)
	}

	claims, err := strategy.verifier.Verify(tokenString)
	if err != nil {
		if errors.Is(err, sec.ErrToken) {
			return authn.Rejected(authn.ReasonInvalidToken)
		}
		return authn.Failed(fmt.Errorf("token_verify_failed: %w", err))
	}

	user, err := strategy.users.FindByID(request.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return authn.Rejected(authn.ReasonStaleToken)
		}
		return authn.Failed(fmt.Errorf("token_user_lookup_failed: %w", err))
	}

	return authn.Authenticated(user.Identity())
}
