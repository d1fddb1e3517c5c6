package auth

import (
	"context"
	"fmt"

	"github.com/groupledger/backend/internal/application/adapter"
)

type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenUseCase rotates a refresh token into a new session. The token's
// user must still exist.
type RefreshTokenUseCase struct {
	users  adapter.UserRepository
	tokens adapter.TokenService
}

func NewRefreshTokenUseCase(users adapter.UserRepository, tokens adapter.TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{users: users, tokens: tokens}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, input RefreshTokenInput) (*Session, error) {
	claims, err := uc.tokens.ValidateRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, invalidRefreshToken(err)
	}

	user, err := uc.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, invalidRefreshToken(nil)
	}

	return openSession(ctx, uc.tokens, user, false)
}
