package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
)

const credentialPrefix = "auth_credential:"

type credential struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// LocalProvider keeps bcrypt credentials in the KV store under auth_credential:{email}
type LocalProvider struct {
	store kvstore.Store
	hash  func(password string) (string, error)
}

// NewLocalProvider creates a new LocalProvider
func NewLocalProvider(store kvstore.Store) *LocalProvider {
	return &LocalProvider{
		store: store,
		hash:  auth.HashPassword,
	}
}

// CreateUser stores a new credential; an existing email yields ErrEmailAlreadyExists
func (p *LocalProvider) CreateUser(ctx context.Context, user NewUser) (string, error) {
	hashed, err := p.hash(user.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	email := normalizeEmail(user.Email)
	cred := credential{
		UserID:       uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
	}

	err = p.store.Update(ctx, credentialPrefix+email, func(_ []byte, exists bool) ([]byte, error) {
		if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return json.Marshal(cred)
	})
	if err != nil {
		return "", err
	}
	return cred.UserID, nil
}

// Authenticate checks the password against the stored hash
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (string, error) {
	cred, err := kvstore.GetJSON[credential](ctx, p.store, credentialPrefix+normalizeEmail(email))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	if !auth.CheckPassword(cred.PasswordHash, password) {
		return "", apperrors.ErrInvalidCredentials
	}
	return cred.UserID, nil
}
