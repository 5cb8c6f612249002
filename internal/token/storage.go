// Package token resolves API tokens for git hosting providers.
//
// Tokens are read from environment variables so that gitproject works the
// same way in a terminal, in CI and in containers:
//
//	export GIT_TOKEN_GITHUB="ghp_..."
//
// A value may also be a JSON document carrying metadata:
//
//	export GIT_TOKEN_GITHUB='{"Value":"ghp_...","ExpiresAt":"2027-01-01T00:00:00Z"}'
//
// Well-known provider variables such as GITHUB_TOKEN are consulted when the
// GIT_TOKEN_ variable is unset.
package token

import (
	"context"
	"errors"
	"time"
)

// Common errors that may be returned by token operations
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenExpired  = errors.New("token has expired")
)

// Provider keys used with Source.Retrieve.
const (
	ProviderGitHub = "GITHUB"
)

// Token represents an authentication token with metadata
type Token struct {
	// Value is the actual token string
	Value string `json:"Value"`

	// ExpiresAt indicates when the token will expire
	// Zero value means the token does not expire
	ExpiresAt time.Time `json:"ExpiresAt"`

	// Scope defines the permissions granted to this token
	Scope string `json:"Scope"`
}

// NewToken creates a new token with validation
func NewToken(value string, expiresAt time.Time, scope string) (*Token, error) {
	token := &Token{Value: value, ExpiresAt: expiresAt, Scope: scope}
	if !IsValid(*token) {
		return nil, ErrTokenInvalid
	}
	return token, nil
}

// Source retrieves tokens by provider key.
type Source interface {
	// Retrieve returns ErrTokenNotFound if no token is configured for key.
	Retrieve(ctx context.Context, key string) (Token, error)
}

// IsExpired checks if a token has expired
func IsExpired(token Token) bool {
	if token.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(token.ExpiresAt)
}

// IsValid performs basic validation of a token
func IsValid(token Token) bool {
	return token.Value != ""
}
