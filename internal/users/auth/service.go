// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/pkg/slice"
)

// # Contracts & Types

// TokenIssuer signs tokens for authenticated principals.
type TokenIssuer interface {
	Issue(subject sec.TokenSubject) (string, error)
}

// Session is what a client receives after registering or logging in.
type Session struct {
	Token string         `json:"token"`
	User  *authn.Identity `json:"user"`
}

// Service implements the account use cases behind the HTTP handler.
type Service struct {
	store  *CredentialStore
	issuer TokenIssuer
}

// NewService constructs a new [Service].
func NewService(store *CredentialStore, issuer TokenIssuer) *Service {
	return &Service{store: store, issuer: issuer}
}

// # Registration Flow

/*
Register creates an account and signs a token for it.

Returns:
  - *Session: Token plus the public projection of the new account
  - error: VALIDATION_ERROR, CONFLICT, or internal failures
*/
func (service *Service) Register(ctx context.Context, username, password string) (*Session, error) {
	user, err := service.store.Create(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return service.IssueToken(user.Identity())
}

// # Session Flow

// IssueToken signs a token for an identity that has already been authenticated.
func (service *Service) IssueToken(identity *authn.Identity) (*Session, error) {
	token, err := service.issuer.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	return &Session{Token: token, User: identity}, nil
}

// # Directory

// ListUsers returns the id and username of every account.
func (service *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := service.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return slice.Map(users, (*User).Summary), nil
}
