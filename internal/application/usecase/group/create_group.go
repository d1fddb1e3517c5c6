// Package group contains group and membership use cases.
package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

const (
	// MaxGroupNameLength is the maximum allowed length for group names.
	MaxGroupNameLength = 100
)

// CreateGroupInput represents the input for group creation.
type CreateGroupInput struct {
	Name   string
	UserID uuid.UUID
	// ShadowMembers are names of people without an account to add right away.
	ShadowMembers []string
}

// CreateGroupOutput represents the output of group creation.
type CreateGroupOutput struct {
	Group   *entity.Group
	Members []*entity.GroupMember
}

// CreateGroupUseCase handles group creation logic.
type CreateGroupUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewCreateGroupUseCase creates a new CreateGroupUseCase instance.
func NewCreateGroupUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute creates the group with the caller as its admin.
func (uc *CreateGroupUseCase) Execute(ctx context.Context, input CreateGroupInput) (*CreateGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameRequired,
			"group name is required",
			domainerror.ErrGroupNameRequired,
		)
	}
	if len(name) > MaxGroupNameLength {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameTooLong,
			fmt.Sprintf("group name must not exceed %d characters", MaxGroupNameLength),
			domainerror.ErrGroupNameTooLong,
		)
	}
	for _, shadow := range input.ShadowMembers {
		if n := strings.TrimSpace(shadow); n == "" || len(n) > MaxMemberNameLength {
			return nil, domainerror.NewGroupError(
				domainerror.ErrCodeMissingGroupFields,
				fmt.Sprintf("member names must be 1 to %d characters", MaxMemberNameLength),
				domainerror.ErrMemberIdentityRequired,
			)
		}
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	group := entity.NewGroup(name, input.UserID)
	if err := uc.groupRepo.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	creator := entity.NewGroupMember(group.ID, input.UserID, entity.MemberRoleAdmin)
	if user != nil {
		creator.UserName = user.Name
		creator.UserEmail = user.Email
	}
	members := []*entity.GroupMember{creator}
	for _, shadow := range input.ShadowMembers {
		members = append(members, entity.NewShadowMember(group.ID, strings.TrimSpace(shadow)))
	}

	for _, m := range members {
		if err := uc.groupRepo.CreateMember(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	return &CreateGroupOutput{
		Group:   group,
		Members: members,
	}, nil
}
