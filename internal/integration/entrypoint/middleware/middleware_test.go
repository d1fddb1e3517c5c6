package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/application/adapter"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	userID uuid.UUID
}

func (s *stubTokenService) GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string, rememberMe bool) (*adapter.TokenPair, error) {
	return nil, nil
}

func (s *stubTokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	switch token {
	case "good":
	case "old":
		return nil, domainerror.ErrExpiredToken
	default:
		return nil, errors.New("invalid token")
	}
	return &adapter.TokenClaims{UserID: s.userID, Email: "a@example.com"}, nil
}

func (s *stubTokenService) ValidateRefreshToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not used")
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()
	m := NewAuthMiddleware(&stubTokenService{userID: userID})

	router := gin.New()
	router.GET("/me", m.Authenticate(), func(c *gin.Context) {
		id, ok := GetUserIDFromContext(c)
		email, _ := GetUserEmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "id": id.String(), "email": email})
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "AUTH-030003"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "AUTH-030001"},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized, code: "AUTH-030003"},
		{name: "invalid token", header: "Bearer bad", status: http.StatusUnauthorized, code: "AUTH-030001"},
		{name: "expired token", header: "Bearer old", status: http.StatusUnauthorized, code: "AUTH-030002"},
		{name: "scheme without token", header: "Bearer", status: http.StatusUnauthorized, code: "AUTH-030001"},
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
				return
			}
			assert.Equal(t, userID.String(), body["id"])
			assert.Equal(t, "a@example.com", body["email"])
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserIDFromContext(c)

	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("E2E_MODE", "")
	rl := NewRateLimiterWithConfig(2, time.Hour)

	router := gin.New()
	router.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2"))

	rl.Reset()
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
}

func TestRateLimiter_SkippedInTests(t *testing.T) {
	t.Setenv("ENV", "test")
	rl := NewRateLimiterWithConfig(1, time.Hour)

	router := gin.New()
	router.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/groups/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/groups/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request rejected", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/groups/:id", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Contains(t, entry, "client_ip")
}
