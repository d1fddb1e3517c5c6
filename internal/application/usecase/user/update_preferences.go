package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

// UpdatePreferencesInput represents a partial preference update.
// Nil fields are left unchanged.
type UpdatePreferencesInput struct {
	UserID          uuid.UUID
	Name            *string
	DisplayCurrency *string
	ConversionMode  *string
}

// UpdatePreferencesUseCase updates profile name, display currency and conversion mode.
type UpdatePreferencesUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdatePreferencesUseCase creates a new UpdatePreferencesUseCase instance.
func NewUpdatePreferencesUseCase(userRepo adapter.UserRepository) *UpdatePreferencesUseCase {
	return &UpdatePreferencesUseCase{userRepo: userRepo}
}

// Execute validates and applies the update.
func (uc *UpdatePreferencesUseCase) Execute(ctx context.Context, input UpdatePreferencesInput) (*entity.User, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeUserNotFound,
			"user not found",
			domainerror.ErrUserNotFound,
		)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidPreferences,
				"name cannot be empty",
				nil,
			)
		}
		user.Name = name
	}

	if input.DisplayCurrency != nil {
		code, ok := valueobject.ParseCurrency(*input.DisplayCurrency)
		if !ok {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidPreferences,
				fmt.Sprintf("display currency %q is not a valid ISO 4217 code", *input.DisplayCurrency),
				domainerror.ErrInvalidDisplayCurrency,
			)
		}
		user.DisplayCurrency = code.String()
	}

	if input.ConversionMode != nil {
		mode := entity.ConversionMode(strings.ToLower(strings.TrimSpace(*input.ConversionMode)))
		if !mode.IsValid() {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidPreferences,
				fmt.Sprintf("conversion mode %q must be one of off, simple, smart", *input.ConversionMode),
				domainerror.ErrInvalidConversionMode,
			)
		}
		user.ConversionMode = mode
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.InfoContext(ctx, "Preferences updated",
		"user_id", user.ID,
		"display_currency", user.DisplayCurrency,
		"conversion_mode", user.ConversionMode,
	)
	return user, nil
}
