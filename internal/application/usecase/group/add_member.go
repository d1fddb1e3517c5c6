package group

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

// MaxMemberNameLength is the maximum allowed length for a shadow member's name.
const MaxMemberNameLength = 100

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AddMemberInput represents the input for adding a member.
// Email adds a registered user; Name alone adds a shadow member.
type AddMemberInput struct {
	GroupID   uuid.UUID
	RequestBy uuid.UUID
	Email     string
	Name      string
}

// AddMemberOutput represents the output of adding a member.
type AddMemberOutput struct {
	Member *entity.GroupMember
}

// AddMemberUseCase handles adding members to a group.
type AddMemberUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewAddMemberUseCase creates a new AddMemberUseCase instance.
func NewAddMemberUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *AddMemberUseCase {
	return &AddMemberUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute adds the member. Only admins may add members.
func (uc *AddMemberUseCase) Execute(ctx context.Context, input AddMemberInput) (*AddMemberOutput, error) {
	requester, err := uc.groupRepo.FindMemberByGroupAndUser(ctx, input.GroupID, input.RequestBy)
	if err != nil {
		return nil, fmt.Errorf("failed to check requester membership: %w", err)
	}
	if requester == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}
	if !requester.IsAdmin() {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupAdmin,
			"only admins can add members",
			domainerror.ErrNotGroupAdmin,
		)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	var member *entity.GroupMember
	switch {
	case email != "":
		member, err = uc.registeredMember(ctx, input.GroupID, email)
		if err != nil {
			return nil, err
		}
	case name != "":
		if len(name) > MaxMemberNameLength {
			return nil, domainerror.NewGroupError(
				domainerror.ErrCodeMissingGroupFields,
				fmt.Sprintf("member name must not exceed %d characters", MaxMemberNameLength),
				domainerror.ErrMemberIdentityRequired,
			)
		}
		member = entity.NewShadowMember(input.GroupID, name)
	default:
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeMemberIdentityRequired,
			"either email or name is required",
			domainerror.ErrMemberIdentityRequired,
		)
	}

	if err := uc.groupRepo.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return &AddMemberOutput{Member: member}, nil
}

func (uc *AddMemberUseCase) registeredMember(ctx context.Context, groupID uuid.UUID, email string) (*entity.GroupMember, error) {
	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvalidGroupEmail,
			"invalid email address",
			domainerror.ErrInvalidGroupEmail,
		)
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeUserNotRegistered,
			"no registered user with this email, add them by name instead",
			domainerror.ErrUserNotRegistered,
		)
	}

	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, groupID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if isMember {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeUserAlreadyMember,
			"user is already a member of this group",
			domainerror.ErrUserAlreadyMember,
		)
	}

	member := entity.NewGroupMember(groupID, user.ID, entity.MemberRoleMember)
	member.UserName = user.Name
	member.UserEmail = user.Email
	return member, nil
}
