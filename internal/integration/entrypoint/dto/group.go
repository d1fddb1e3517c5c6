package dto

import (
	"time"

	"github.com/groupledger/backend/internal/domain/entity"
)

// CreateGroupRequest represents the request body for group creation.
type CreateGroupRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=100"`
	ShadowMembers []string `json:"shadow_members" binding:"omitempty,dive,min=1,max=100"`
}

// AddMemberRequest adds a registered user by email or a shadow member by name.
type AddMemberRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Name  string `json:"name" binding:"omitempty,max=100"`
}

// GroupResponse represents a single group in API responses.
type GroupResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	CreatedBy string                `json:"created_by"`
	CreatedAt time.Time             `json:"created_at"`
	Members   []GroupMemberResponse `json:"members"`
}

// GroupDetailResponse represents detailed group information.
type GroupDetailResponse struct {
	GroupResponse
	UserRole string `json:"user_role"`
}

// GroupListResponse represents the response for listing groups.
type GroupListResponse struct {
	Groups []GroupListItemResponse `json:"groups"`
}

// GroupListItemResponse represents a group in list view.
type GroupListItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupMemberResponse represents a group member in API responses.
type GroupMemberResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
	IsShadow bool      `json:"is_shadow"`
	JoinedAt time.Time `json:"joined_at"`
}

// ToGroupResponse converts a domain Group entity to a GroupResponse DTO.
func ToGroupResponse(group *entity.Group, members []*entity.GroupMember) GroupResponse {
	response := GroupResponse{
		ID:        group.ID.String(),
		Name:      group.Name,
		CreatedBy: group.CreatedBy.String(),
		CreatedAt: group.CreatedAt,
		Members:   make([]GroupMemberResponse, len(members)),
	}

	for i, m := range members {
		response.Members[i] = ToGroupMemberResponse(m)
	}

	return response
}

// ToGroupDetailResponse converts a group, its members and the caller's role.
func ToGroupDetailResponse(group *entity.Group, members []*entity.GroupMember, role entity.MemberRole) GroupDetailResponse {
	return GroupDetailResponse{
		GroupResponse: ToGroupResponse(group, members),
		UserRole:      string(role),
	}
}

// ToGroupListResponse converts a list of GroupListItem to GroupListResponse.
func ToGroupListResponse(groups []*entity.GroupListItem) GroupListResponse {
	items := make([]GroupListItemResponse, len(groups))
	for i, g := range groups {
		items[i] = GroupListItemResponse{
			ID:          g.ID.String(),
			Name:        g.Name,
			MemberCount: g.MemberCount,
			Role:        string(g.Role),
			CreatedAt:   g.CreatedAt,
		}
	}
	return GroupListResponse{Groups: items}
}

// ToGroupMemberResponse converts a domain GroupMember to its response DTO.
func ToGroupMemberResponse(m *entity.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		ID:       m.ID.String(),
		UserID:   m.UserID.String(),
		Name:     m.UserName,
		Email:    m.UserEmail,
		Role:     string(m.Role),
		IsShadow: m.IsShadow,
		JoinedAt: m.JoinedAt,
	}
}
