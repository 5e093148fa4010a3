// Package auth verifies bearer tokens by delegating to the external auth
// collaborator. The bridge never mints or inspects tokens itself.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken reports that the auth provider rejected the token.
var ErrInvalidToken = errors.New("invalid bearer token")

// Identity describes an authenticated caller.
type Identity struct {
	// Subject is the provider's stable identifier for the caller.
	Subject string
}

// Verifier checks a bearer token and resolves the caller identity.
type Verifier interface {
	// Verify returns the identity for a valid token, ErrInvalidToken for a
	// rejected one, and any other error when the provider is unreachable.
	Verify(ctx context.Context, token string) (Identity, error)
}

// AllowAll accepts every non-empty token. Used when auth.mode is "none",
// which only makes sense for local development.
type AllowAll struct{}

// Verify implements Verifier.
func (AllowAll) Verify(_ context.Context, token string) (Identity, error) {
	return Identity{Subject: "anonymous"}, nil
}

// Static accepts tokens from a fixed list.
type Static struct {
	tokens map[string]struct{}
}

// NewStatic builds a Static verifier from the configured token list.
func NewStatic(tokens []string) *Static {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return &Static{tokens: set}
}

// Verify implements Verifier.
func (s *Static) Verify(_ context.Context, token string) (Identity, error) {
	if _, ok := s.tokens[token]; !ok {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Subject: "static"}, nil
}
