// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// ContextKey names a value stored on the gin context by this package.
type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	UserEmailKey ContextKey = "user_email"
)

const bearerScheme = "Bearer"

// AuthMiddleware rejects requests without a valid access token and exposes
// the caller's identity to the handlers behind it.
type AuthMiddleware struct {
	tokens adapter.TokenService
}

func NewAuthMiddleware(tokens adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// authFailure is a rejected Authorization header.
type authFailure struct {
	code    domainerror.AuthErrorCode
	message string
}

var (
	errNoHeader    = &authFailure{domainerror.ErrCodeMissingToken, "Authorization header is required"}
	errBadScheme   = &authFailure{domainerror.ErrCodeInvalidToken, "Invalid authorization header format"}
	errEmptyBearer = &authFailure{domainerror.ErrCodeMissingToken, "Token is required"}
	errRejected    = &authFailure{domainerror.ErrCodeInvalidToken, "Invalid token"}
	errExpired     = &authFailure{domainerror.ErrCodeExpiredToken, "Token has expired"}
)

// bearerToken extracts the token of a "Bearer <token>" header.
func bearerToken(header string) (string, *authFailure) {
	if header == "" {
		return "", errNoHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme {
		return "", errBadScheme
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errEmptyBearer
	}
	return token, nil
}

func abortUnauthorized(c *gin.Context, failure *authFailure) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: failure.message,
		Code:  string(failure.code),
	})
}

// Authenticate validates the bearer token and stores the user id and email
// under UserIDKey and UserEmailKey.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, failure := bearerToken(c.GetHeader("Authorization"))
		if failure != nil {
			abortUnauthorized(c, failure)
			return
		}

		claims, err := m.tokens.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "access token rejected",
				"path", c.FullPath(),
				"error", err,
			)
			failure = errRejected
			if errors.Is(err, domainerror.ErrExpiredToken) {
				failure = errExpired
			}
			abortUnauthorized(c, failure)
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserEmailKey), claims.Email)
		c.Next()
	}
}

// GetUserIDFromContext returns the id stored by Authenticate.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	return contextValue[uuid.UUID](c, UserIDKey)
}

// GetUserEmailFromContext returns the email stored by Authenticate.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	return contextValue[string](c, UserEmailKey)
}

func contextValue[T any](c *gin.Context, key ContextKey) (T, bool) {
	var zero T
	raw, exists := c.Get(string(key))
	if !exists {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
