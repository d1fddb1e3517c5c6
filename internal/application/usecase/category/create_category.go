// Package category contains category use cases.
package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 50

	DefaultColor = "#9CA3AF"
	DefaultIcon  = "tag"
)

var hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// CreateCategoryInput represents the input for category creation.
// Group categories require RequestBy to be a member of OwnerID.
type CreateCategoryInput struct {
	Name      string
	Color     string
	Icon      string
	OwnerType entity.OwnerType
	OwnerID   uuid.UUID
	RequestBy uuid.UUID
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	groupRepo    adapter.GroupRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository, groupRepo adapter.GroupRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			"category name is required",
			nil,
		)
	}
	if len(name) > MaxCategoryNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}
	if input.Color != "" && !hexColorRegex.MatchString(input.Color) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidColorFormat,
			"color must be a valid hex format (#XXXXXX)",
			domainerror.ErrInvalidColorFormat,
		)
	}
	if len(input.Icon) > MaxIconLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			fmt.Sprintf("icon must not exceed %d characters", MaxIconLength),
			nil,
		)
	}

	if !input.OwnerType.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidOwnerType,
			"owner type must be 'user' or 'group'",
			domainerror.ErrInvalidOwnerType,
		)
	}
	if err := uc.authorizeOwner(ctx, input); err != nil {
		return nil, err
	}

	exists, err := uc.categoryRepo.ExistsByNameAndOwner(ctx, name, input.OwnerType, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists",
			domainerror.ErrCategoryNameExists,
		)
	}

	color := input.Color
	if color == "" {
		color = DefaultColor
	}
	icon := input.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	category := entity.NewCategory(name, color, icon, input.OwnerType, input.OwnerID)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// authorizeOwner allows users to create their own categories and those of
// groups they belong to.
func (uc *CreateCategoryUseCase) authorizeOwner(ctx context.Context, input CreateCategoryInput) error {
	allowed := input.OwnerID == input.RequestBy
	reason := "cannot create categories for another user"
	if input.OwnerType == entity.OwnerTypeGroup {
		isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.OwnerID, input.RequestBy)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		allowed = isMember
		reason = "you are not a member of this group"
	}
	if !allowed {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeNotAuthorizedCategory,
			reason,
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}
	return nil
}
