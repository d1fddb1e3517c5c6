// Package adapter declares the ports the use cases depend on. The
// integration layer provides the implementations.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims identifies the user a token was issued to.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService issues and checks signed session tokens. Access and refresh
// tokens are not interchangeable: each Validate method rejects the other kind.
type TokenService interface {
	// GenerateTokenPair issues a new pair. rememberMe extends the refresh
	// token lifetime.
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string, rememberMe bool) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
	ValidateRefreshToken(ctx context.Context, token string) (*TokenClaims, error)
}

// PasswordService hashes and checks user passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)
	// VerifyPassword returns an error when password does not match the hash.
	VerifyPassword(hashedPassword, password string) error
	ValidatePasswordStrength(password string) error
}
