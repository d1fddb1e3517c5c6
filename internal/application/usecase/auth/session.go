package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// Session is the token pair issued to a user who proved their identity.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

func openSession(ctx context.Context, tokens adapter.TokenService, user *entity.User, rememberMe bool) (*Session, error) {
	pair, err := tokens.GenerateTokenPair(ctx, user.ID, user.Email, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}

func invalidRefreshToken(cause error) error {
	if errors.Is(cause, domainerror.ErrExpiredToken) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeExpiredToken,
			"refresh token has expired",
			domainerror.ErrExpiredToken,
		)
	}
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidToken,
		"invalid or expired refresh token",
		domainerror.ErrInvalidToken,
	)
}
