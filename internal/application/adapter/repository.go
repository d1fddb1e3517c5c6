package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/domain/entity"
)

// The Find methods of the repositories below return nil without an error
// when nothing matches.

// UserRepository stores registered users and shadow members alike.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByEmail expects an already normalized address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// GroupRepository stores groups and their membership.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *entity.Group) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	// FindGroupsByUserID lists the groups of a user with their member counts.
	FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error)

	CreateMember(ctx context.Context, member *entity.GroupMember) error
	FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.GroupMember, error)
	// FindMembersByGroupID returns the members in join order.
	FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.GroupMember, error)
	IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

// CategoryRepository stores expense categories owned by a user or a group.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByOwner(ctx context.Context, ownerType entity.OwnerType, ownerID uuid.UUID) ([]*entity.Category, error)
	// FindByIDs skips unknown ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error)
	ExistsByNameAndOwner(ctx context.Context, name string, ownerType entity.OwnerType, ownerID uuid.UUID) (bool, error)
}
