// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Its types are injected into the identity layer at
// construction time and never mutated afterwards.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Errors

var (
	// ErrToken is the parent of every token verification failure.
	ErrToken = errors.New("sec: token rejected")

	// ErrTokenMalformed indicates the string is not a parseable JWT.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrToken)

	// ErrTokenSignature indicates the signature does not match the payload.
	ErrTokenSignature = fmt.Errorf("%w: invalid signature", ErrToken)

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrToken)
)

// MinSecretLength is the minimum accepted HMAC secret size in bytes.
const MinSecretLength = 32

// TokenTTL is the lifetime of every issued token.
const TokenTTL = 24 * time.Hour

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// Username and Role are copied in at issuance. They describe the account as
// it was then; verifiers that need current data reload it by subject.
type AuthClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// UserID returns the token subject.
func (claims *AuthClaims) UserID() string {
	return claims.Subject
}

// TokenSubject is what the issuer needs to know about a user.
type TokenSubject interface {
	TokenIdentity() (userID, username, role string)
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService from a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("sec: jwt secret must be at least %d bytes", MinSecretLength)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// Issue creates a signed token for subject, valid for [TokenTTL].
func (service *TokenService) Issue(subject TokenSubject) (string, error) {
	userID, username, role := subject.TokenIdentity()

	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and then the validity window of a JWT string.
//
// Every failure wraps [ErrToken].
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %w", ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrToken, err)
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token claims", ErrTokenMalformed)
	}

	return claims, nil
}
