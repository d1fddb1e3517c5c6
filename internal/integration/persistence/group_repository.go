package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/integration/persistence/model"
)

// groupRepository implements the adapter.GroupRepository interface.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance.
func NewGroupRepository(db *gorm.DB) adapter.GroupRepository {
	return &groupRepository{
		db: db,
	}
}

// CreateGroup creates a new group in the database.
func (r *groupRepository) CreateGroup(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Create(model.GroupFromEntity(group)).Error
}

// FindGroupByID retrieves a group by its ID.
func (r *groupRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var groupModel model.GroupModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&groupModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return groupModel.ToEntity(), nil
}

// FindGroupsByUserID retrieves all groups a user belongs to, newest first.
func (r *groupRepository) FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error) {
	var results []struct {
		ID          uuid.UUID
		Name        string
		MemberCount int
		Role        string
		CreatedAt   time.Time
	}

	query := `
		SELECT
			g.id,
			g.name,
			(SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id) AS member_count,
			gm.role,
			g.created_at
		FROM "groups" g
		INNER JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC
	`

	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&results).Error; err != nil {
		return nil, err
	}

	groups := make([]*entity.GroupListItem, len(results))
	for i, res := range results {
		groups[i] = &entity.GroupListItem{
			ID:          res.ID,
			Name:        res.Name,
			MemberCount: res.MemberCount,
			Role:        entity.MemberRole(res.Role),
			CreatedAt:   res.CreatedAt,
		}
	}

	return groups, nil
}

// CreateMember adds a new member to a group.
func (r *groupRepository) CreateMember(ctx context.Context, member *entity.GroupMember) error {
	return r.db.WithContext(ctx).Create(model.GroupMemberFromEntity(member)).Error
}

// FindMemberByGroupAndUser retrieves a member by group and user ID.
func (r *groupRepository) FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.GroupMember, error) {
	var memberModel model.GroupMemberModel
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&memberModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	members := []model.GroupMemberModel{memberModel}
	if err := r.attachUsers(ctx, members); err != nil {
		return nil, err
	}
	return members[0].ToEntity(), nil
}

// FindMembersByGroupID retrieves all members of a group in join order.
func (r *groupRepository) FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.GroupMember, error) {
	var memberModels []model.GroupMemberModel
	result := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Order("id ASC").
		Find(&memberModels)
	if result.Error != nil {
		return nil, result.Error
	}

	if err := r.attachUsers(ctx, memberModels); err != nil {
		return nil, err
	}

	members := make([]*entity.GroupMember, len(memberModels))
	for i := range memberModels {
		members[i] = memberModels[i].ToEntity()
	}
	return members, nil
}

// IsUserMemberOfGroup checks if a user is a member of a group.
func (r *groupRepository) IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// attachUsers fills name and email for registered members.
func (r *groupRepository) attachUsers(ctx context.Context, members []model.GroupMemberModel) error {
	userIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if !m.IsShadow {
			userIDs = append(userIDs, m.UserID)
		}
	}
	if len(userIDs) == 0 {
		return nil
	}

	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&userModels).Error; err != nil {
		return err
	}
	users := make(map[uuid.UUID]model.UserModel, len(userModels))
	for _, u := range userModels {
		users[u.ID] = u
	}
	for i := range members {
		if u, ok := users[members[i].UserID]; ok {
			members[i].UserName = u.Name
			members[i].UserEmail = u.Email
		}
	}
	return nil
}
