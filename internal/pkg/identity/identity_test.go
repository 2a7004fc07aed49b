package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
	"golang.org/x/crypto/bcrypt"
)

func newLocal() *LocalProvider {
	p := NewLocalProvider(kvstore.NewMemoryStore())
	p.hash = func(pw string) (string, error) { return auth.HashPasswordWithCost(pw, bcrypt.MinCost) }
	return p
}

func TestLocalProviderCreateAndAuthenticate(t *testing.T) {
	p := newLocal()
	ctx := context.Background()

	id, err := p.CreateUser(ctx, NewUser{Email: "Asha@Uni.edu", Password: "pw", Name: "Asha", Role: "student"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := p.Authenticate(ctx, "asha@uni.edu", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = p.Authenticate(ctx, "asha@uni.edu", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = p.Authenticate(ctx, "nobody@uni.edu", "pw")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLocalProviderRejectsDuplicateEmail(t *testing.T) {
	p := newLocal()
	ctx := context.Background()

	_, err := p.CreateUser(ctx, NewUser{Email: "a@uni.edu", Password: "pw"})
	require.NoError(t, err)

	_, err = p.CreateUser(ctx, NewUser{Email: "A@uni.edu", Password: "other"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

const supabaseUserID = "6f1c2b9e-8d4a-4c3e-9b1a-2f7e5d3c1a09"

func TestSupabaseProviderMissingConfiguration(t *testing.T) {
	p := NewSupabaseProvider(SupabaseConfig{})

	_, err := p.CreateUser(context.Background(), NewUser{Email: "a@uni.edu"})
	assert.ErrorIs(t, err, apperrors.ErrServerConfiguration)

	_, err = p.Authenticate(context.Background(), "a@uni.edu", "pw")
	assert.ErrorIs(t, err, apperrors.ErrServerConfiguration)
}

func TestSupabaseProviderCreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		switch body["email"] {
		case "taken@uni.edu":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
		case "broken@uni.edu":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"msg":"boom"}`))
		default:
			assert.Equal(t, true, body["email_confirm"])
			assert.Equal(t, "pw", body["password"])
			meta := body["user_metadata"].(map[string]interface{})
			assert.Equal(t, "student", meta["role"])
			_, _ = w.Write([]byte(`{"id":"` + supabaseUserID + `"}`))
		}
	}))
	defer srv.Close()

	p := NewSupabaseProvider(SupabaseConfig{URL: srv.URL + "/", ServiceRoleKey: "service-key"})
	ctx := context.Background()

	id, err := p.CreateUser(ctx, NewUser{Email: "new@uni.edu", Password: "pw", Name: "N", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, supabaseUserID, id)

	_, err = p.CreateUser(ctx, NewUser{Email: "taken@uni.edu"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = p.CreateUser(ctx, NewUser{Email: "broken@uni.edu"})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestSupabaseProviderAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"x","token_type":"bearer","user":{"id":"` + supabaseUserID + `"}}`))
	}))
	defer srv.Close()

	p := NewSupabaseProvider(SupabaseConfig{URL: srv.URL, ServiceRoleKey: "k"})

	id, err := p.Authenticate(context.Background(), "a@uni.edu", "pw")
	require.NoError(t, err)
	assert.Equal(t, supabaseUserID, id)

	_, err = p.Authenticate(context.Background(), "a@uni.edu", "bad")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSupabaseProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewSupabaseProvider(SupabaseConfig{URL: url, ServiceRoleKey: "k", Timeout: time.Second})

	_, err := p.Authenticate(context.Background(), "a@uni.edu", "pw")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	_, err = p.CreateUser(context.Background(), NewUser{Email: "a@uni.edu", Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
