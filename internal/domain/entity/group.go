// Package entity holds the domain types shared by the use cases.
package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Group is a set of people sharing expenses. Its creator is its first admin.
type Group struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewGroup(name string, createdBy uuid.UUID) *Group {
	now := time.Now().UTC()
	return &Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GroupMember links a participant to a group. A shadow member was added by
// name only and has no account; its UserID is generated when it joins and
// never changes. Balances make no difference between the two kinds.
type GroupMember struct {
	ID       uuid.UUID
	GroupID  uuid.UUID
	UserID   uuid.UUID
	Role     MemberRole
	IsShadow bool
	JoinedAt time.Time
	// UserName and UserEmail are filled by the repository. Shadow members
	// have a name but no email.
	UserName  string
	UserEmail string
}

func NewGroupMember(groupID, userID uuid.UUID, role MemberRole) *GroupMember {
	return &GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
}

func NewShadowMember(groupID uuid.UUID, name string) *GroupMember {
	m := NewGroupMember(groupID, uuid.New(), MemberRoleMember)
	m.IsShadow = true
	m.UserName = name
	return m
}

func (m *GroupMember) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}

// MemberSet indexes members by user id.
func MemberSet(members []*GroupMember) map[uuid.UUID]*GroupMember {
	set := make(map[uuid.UUID]*GroupMember, len(members))
	for _, m := range members {
		if _, dup := set[m.UserID]; !dup {
			set[m.UserID] = m
		}
	}
	return set
}

// GroupListItem is one row of the caller's group list.
type GroupListItem struct {
	ID          uuid.UUID
	Name        string
	MemberCount int
	Role        MemberRole
	CreatedAt   time.Time
}
