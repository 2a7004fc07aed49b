package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"validation", apperrors.NewValidationError("Missing required fields"), 400, dto.ErrorCodeValidationFailed, "Missing required fields"},
		{"content", apperrors.NewContentRejectedError("blocked", "revise"), 400, dto.ErrorCodeContentRejected, "blocked"},
		{"not found", apperrors.NewNotFoundError("Post not found"), 404, dto.ErrorCodeResourceNotFound, "Post not found"},
		{"wrapped not found", fmt.Errorf("load: %w", apperrors.ErrResourceNotFound), 404, dto.ErrorCodeResourceNotFound, "Resource not found"},
		{"conflict", apperrors.NewConflictError("taken"), 409, dto.ErrorCodeConflict, "taken"},
		{"email exists", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{"credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"configuration", apperrors.NewServerConfigurationError("Server configuration error"), 500, dto.ErrorCodeConfiguration, "Server configuration error"},
		{"upstream", apperrors.NewUpstreamError("Failed to create user account", errors.New("dial tcp")), 500, dto.ErrorCodeExternalServiceError, "Failed to create user account"},
		{"unknown", errors.New("disk on fire"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestHandleAPIErrorCarriesSuggestion(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/peer-post", nil)

	HandleAPIError(c, apperrors.NewContentRejectedError("Content contains inappropriate language and cannot be posted", "Please revise your message and try again"))

	resp := decodeError(t, w)
	assert.Equal(t, "Please revise your message and try again", resp.Suggestion)
}

type bindTarget struct {
	UserID string `json:"userId" binding:"required"`
	Level  string `json:"riskLevel" binding:"omitempty,risklevel"`
}

func bindRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, RegisterValidators())
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return r
}

func TestBindJSON(t *testing.T) {
	r := bindRouter(t)

	tests := []struct {
		body    string
		status  int
		message string
	}{
		{`{"userId":"u1","riskLevel":"high"}`, 200, ""},
		{`{"riskLevel":"high"}`, 400, "Missing required fields"},
		{`{"userId":"u1","riskLevel":"severe"}`, 400, "riskLevel must be one of: low moderate high crisis"},
		{`not json`, 400, "Invalid request format"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.status, w.Code, tt.body)
		if tt.status != 200 {
			assert.Equal(t, tt.message, decodeError(t, w).Error, tt.body)
		}
	}
}

func authRouter(mode string, jwtService *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.Use(NewAuthMiddleware(jwtService, mode).RequireAuth())
	r.GET("/private", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString(ContextUserID)})
	})
	return r
}

func doAuth(r *gin.Engine, header, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private"+query, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthPresenceMode(t *testing.T) {
	r := authRouter(TokenModePresence, nil)

	assert.Equal(t, 200, doAuth(r, "Bearer anything", "").Code)
	assert.Equal(t, 200, doAuth(r, "", "?token=abc").Code)
	assert.Equal(t, 401, doAuth(r, "", "").Code)
	assert.Equal(t, 401, doAuth(r, "Bearer null", "").Code)
	assert.Equal(t, 401, doAuth(r, "Bearer undefined", "").Code)
	assert.Equal(t, 401, doAuth(r, "Bearer ", "").Code)
	assert.Equal(t, 401, doAuth(r, "Token abc", "").Code)
}

func TestRequireAuthJWTMode(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	r := authRouter(TokenModeJWT, jwtService)

	token, _, err := jwtService.GenerateAccessToken("u1", "a@uni.edu", "student")
	require.NoError(t, err)

	w := doAuth(r, "Bearer "+token, "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"u1"`)

	w = doAuth(r, "Bearer not-a-jwt", "")
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Code)

	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: -time.Minute, TokenIssuer: "test"})
	stale, _, err := expired.GenerateAccessToken("u1", "a@uni.edu", "student")
	require.NoError(t, err)
	w = doAuth(r, "Bearer "+stale, "")
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Code)
}

func TestRequireClientKey(t *testing.T) {
	newRouter := func(mode string) *gin.Engine {
		r := gin.New()
		r.Use(NewAuthMiddleware(nil, mode).RequireClientKey())
		r.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	presence := newRouter(TokenModePresence)
	assert.Equal(t, 200, doAuth(presence, "Bearer anon-key", "").Code)
	assert.Equal(t, 401, doAuth(presence, "", "").Code)
	assert.Equal(t, 401, doAuth(presence, "Bearer null", "").Code)

	open := newRouter(TokenModeJWT)
	assert.Equal(t, 200, doAuth(open, "", "").Code)
}

func TestRequestLoggerRecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector("test")
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop(), collector))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	families, err := collector.Registry().Gather()
	require.NoError(t, err)

	var seen []string
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "http_requests_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					seen = append(seen, l.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/health", "unmatched"}, seen)
}
