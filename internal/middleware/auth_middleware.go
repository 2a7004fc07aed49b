package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/auth"
)

// Token modes
const (
	// TokenModePresence only checks that a usable bearer token was sent
	TokenModePresence = "presence"
	// TokenModeJWT also verifies the token signature and expiry
	TokenModeJWT = "jwt"
)

// Context keys set by RequireAuth in jwt mode
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware guards the API routes
type AuthMiddleware struct {
	jwtService *auth.JWTService
	mode       string
}

// NewAuthMiddleware creates a new AuthMiddleware; an unknown mode behaves as presence
func NewAuthMiddleware(jwtService *auth.JWTService, mode string) *AuthMiddleware {
	if mode != TokenModeJWT {
		mode = TokenModePresence
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		mode:       mode,
	}
}

// RequireAuth rejects requests without a bearer token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		if m.mode == TokenModeJWT {
			claims, err := m.jwtService.ValidateToken(tokenString)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
					return
				}
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
				return
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextRole, claims.Role)
		}

		c.Next()
	}
}

// RequireClientKey guards the credential endpoints. In presence mode clients
// send the public anon key as a bearer token; in jwt mode signup and login
// are how a token is obtained, so they stay open.
func (m *AuthMiddleware) RequireClientKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.mode == TokenModeJWT {
			c.Next()
			return
		}
		if _, ok := bearerToken(c); !ok {
			return
		}
		c.Next()
	}
}

// bearerToken extracts a usable token or aborts with 401
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")

	// Browsers cannot set headers on WebSocket upgrades
	if authHeader == "" {
		if queryToken := c.Query("token"); queryToken != "" {
			authHeader = "Bearer " + queryToken
		}
	}

	if authHeader == "" {
		abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
		return "", false
	}

	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
		return "", false
	}
	return tokenString, true
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
