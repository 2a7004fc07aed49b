// Package identity creates and authenticates accounts with the configured
// auth provider. Profiles and statistics live in the KV store; the provider
// only owns credentials.
package identity

import (
	"context"
	"strings"
)

// NewUser is the data handed to the provider at signup
type NewUser struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Provider creates accounts and verifies credentials
type Provider interface {
	// CreateUser registers the account and returns its id
	CreateUser(ctx context.Context, user NewUser) (string, error)
	// Authenticate returns the id of the account matching the credentials
	Authenticate(ctx context.Context, email, password string) (string, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
