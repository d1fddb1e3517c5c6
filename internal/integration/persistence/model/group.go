package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/domain/entity"
)

// GroupModel represents the groups table in the database.
type GroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GroupModel.
func (GroupModel) TableName() string {
	return "groups"
}

// ToEntity converts a GroupModel to a domain Group entity.
func (m *GroupModel) ToEntity() *entity.Group {
	return &entity.Group{
		ID:        m.ID,
		Name:      m.Name,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GroupFromEntity creates a GroupModel from a domain Group entity.
func GroupFromEntity(group *entity.Group) *GroupModel {
	return &GroupModel{
		ID:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}

// GroupMemberModel represents the group_members table in the database.
// Shadow members have no users row; their name lives in ShadowName.
type GroupMemberModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index"`
	Role       string    `gorm:"type:varchar(20);not null"`
	IsShadow   bool      `gorm:"not null;default:false"`
	ShadowName string    `gorm:"type:varchar(100)"`
	JoinedAt   time.Time `gorm:"not null"`
	// User information (joined from users table)
	UserName  string `gorm:"-"`
	UserEmail string `gorm:"-"`
}

// TableName returns the table name for the GroupMemberModel.
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToEntity converts a GroupMemberModel to a domain GroupMember entity.
func (m *GroupMemberModel) ToEntity() *entity.GroupMember {
	name := m.UserName
	if m.IsShadow {
		name = m.ShadowName
	}
	return &entity.GroupMember{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Role:      entity.MemberRole(m.Role),
		IsShadow:  m.IsShadow,
		JoinedAt:  m.JoinedAt,
		UserName:  name,
		UserEmail: m.UserEmail,
	}
}

// GroupMemberFromEntity creates a GroupMemberModel from a domain GroupMember entity.
func GroupMemberFromEntity(member *entity.GroupMember) *GroupMemberModel {
	m := &GroupMemberModel{
		ID:       member.ID,
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		IsShadow: member.IsShadow,
		JoinedAt: member.JoinedAt,
	}
	if member.IsShadow {
		m.ShadowName = member.UserName
	}
	return m
}
