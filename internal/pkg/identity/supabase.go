package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

// SupabaseConfig holds the project URL and the service role key
type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
	Timeout        time.Duration
}

// SupabaseProvider uses the Supabase GoTrue admin API
type SupabaseProvider struct {
	client gotrue.Client
}

// NewSupabaseProvider creates a provider. Missing credentials are reported on
// first use as a server configuration error, not at construction.
func NewSupabaseProvider(cfg SupabaseConfig) *SupabaseProvider {
	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" || cfg.ServiceRoleKey == "" {
		return &SupabaseProvider{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := gotrue.New("", cfg.ServiceRoleKey).
		WithCustomGoTrueURL(baseURL + "/auth/v1").
		WithToken(cfg.ServiceRoleKey).
		WithClient(http.Client{Timeout: timeout})
	return &SupabaseProvider{client: client}
}

func (p *SupabaseProvider) configured() error {
	if p.client == nil {
		return apperrors.NewServerConfigurationError("Server configuration error")
	}
	return nil
}

// CreateUser registers a confirmed user with name and role as metadata
func (p *SupabaseProvider) CreateUser(ctx context.Context, user NewUser) (string, error) {
	if err := p.configured(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	password := user.Password
	resp, err := p.client.AdminCreateUser(types.AdminCreateUserRequest{
		Email:        user.Email,
		Password:     &password,
		EmailConfirm: true,
		UserMetadata: map[string]interface{}{
			"name": user.Name,
			"role": user.Role,
		},
	})
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "email_exists") || strings.Contains(msg, "already") {
			return "", apperrors.ErrEmailAlreadyExists
		}
		return "", apperrors.NewUpstreamError("Failed to create user", err)
	}

	if resp.ID == uuid.Nil {
		return "", apperrors.NewUpstreamError("Failed to create user",
			fmt.Errorf("supabase returned no user id"))
	}
	return resp.ID.String(), nil
}

// Authenticate exchanges email and password for a session and returns the user id
func (p *SupabaseProvider) Authenticate(ctx context.Context, email, password string) (string, error) {
	if err := p.configured(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	session, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		switch responseStatus(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.NewUpstreamError("Failed to authenticate", err)
	}
	return session.User.ID.String(), nil
}

// responseStatus recovers the HTTP status from a gotrue client error, 0 when
// the request never got a response
func responseStatus(err error) int {
	var status int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &status); scanErr != nil {
		return 0
	}
	return status
}
