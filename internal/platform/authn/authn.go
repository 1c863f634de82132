// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authn defines the contract shared by every authentication strategy.

A [Strategy] inspects a request and produces an [Outcome] in exactly one of
three states:

  - Authenticated: the request proved an [Identity].
  - Rejected: the request did not prove an identity (bad credentials, bad token).
  - Failed: the strategy could not decide because something broke.

The route gate consumes outcomes uniformly and never needs to know which
strategy produced them.
*/
package authn

import (
	"fmt"
	"net/http"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// TokenIdentity lets an Identity be passed straight to the token issuer.
func (identity *Identity) TokenIdentity() (string, string, string) {
	return identity.UserID, identity.Username, identity.Role
}

// # Outcomes

// State enumerates the three possible outcomes of an authentication attempt.
type State int

const (
	StateAuthenticated State = iota + 1
	StateRejected
	StateFailed
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reason explains a rejection. It is logged, never returned to clients.
type Reason string

const (
	ReasonNoSuchUser     Reason = "no_such_user"
	ReasonBadCredentials Reason = "bad_credentials"
	ReasonInvalidToken   Reason = "invalid_token"
	ReasonStaleToken     Reason = "stale_token"
	ReasonMissingToken   Reason = "missing_token"
)

// Outcome is the result of [Strategy.Authenticate].
//
// Build values with [Authenticated], [Rejected] or [Failed]; the zero value
// is not a valid outcome.
type Outcome struct {
	State    State
	Identity *Identity
	Reason   Reason
	Cause    error
}

// Authenticated builds a successful outcome.
func Authenticated(identity *Identity) Outcome {
	return Outcome{State: StateAuthenticated, Identity: identity}
}

// Rejected builds a rejection outcome.
func Rejected(reason Reason) Outcome {
	return Outcome{State: StateRejected, Reason: reason}
}

// Failed builds an error outcome.
func Failed(cause error) Outcome {
	return Outcome{State: StateFailed, Cause: cause}
}

// # Strategies

// Strategy maps request credentials to an [Outcome].
type Strategy interface {
	Authenticate(request *http.Request) Outcome
}

// StrategyFunc adapts a plain function to [Strategy].
type StrategyFunc func(request *http.Request) Outcome

// Authenticate calls f(request).
func (f StrategyFunc) Authenticate(request *http.Request) Outcome {
	return f(request)
}
