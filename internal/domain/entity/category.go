package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerType tells whether a category belongs to a single user or is shared
// by a whole group.
type OwnerType string

const (
	OwnerTypeUser  OwnerType = "user"
	OwnerTypeGroup OwnerType = "group"
)

func (t OwnerType) IsValid() bool {
	return t == OwnerTypeUser || t == OwnerTypeGroup
}

const (
	// UncategorizedKey groups expenses without a category in the breakdown.
	UncategorizedKey  = "uncategorized"
	UncategorizedName = "Uncategorized"
	// UnknownCategoryName labels expenses whose category no longer resolves.
	UnknownCategoryName = "Unknown"
)

// CategoryKey returns the breakdown key of an expense category.
func CategoryKey(id *uuid.UUID) string {
	if id == nil {
		return UncategorizedKey
	}
	return id.String()
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Icon      string
	OwnerType OwnerType
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(name, color, icon string, ownerType OwnerType, ownerID uuid.UUID) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether the category belongs to the given owner.
func (c *Category) OwnedBy(ownerType OwnerType, ownerID uuid.UUID) bool {
	return c.OwnerType == ownerType && c.OwnerID == ownerID
}

// SameName compares category names the way uniqueness is enforced.
func (c *Category) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
}
