package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	UserID  uuid.UUID
	GroupID *uuid.UUID // When set, the group's categories are listed after the user's
}

// ListCategoriesUseCase lists the categories visible to a user.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
	groupRepo    adapter.GroupRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository, groupRepo adapter.GroupRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) ([]*entity.Category, error) {
	categories, err := uc.categoryRepo.FindByOwner(ctx, entity.OwnerTypeUser, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if input.GroupID != nil {
		isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, *input.GroupID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeNotAuthorizedCategory,
				"you are not a member of this group",
				domainerror.ErrNotAuthorizedToModifyCategory,
			)
		}
		groupCategories, err := uc.categoryRepo.FindByOwner(ctx, entity.OwnerTypeGroup, *input.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group categories: %w", err)
		}
		categories = append(categories, groupCategories...)
	}

	if categories == nil {
		categories = []*entity.Category{}
	}
	return categories, nil
}
