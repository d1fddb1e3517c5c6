package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupledger/backend/internal/domain/entity"
)

// CategoryModel represents the categories table. NameKey is the lowercased
// name and keeps names unique per owner regardless of case.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(50);not null"`
	NameKey   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_category_owner_name"`
	Color     string    `gorm:"type:varchar(7);not null"`
	Icon      string    `gorm:"type:varchar(50);not null"`
	OwnerType string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_category_owner_name;index:idx_category_owner"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_owner_name;index:idx_category_owner"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// CategoryNameKey normalizes a category name for lookups.
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (m *CategoryModel) BeforeSave(*gorm.DB) error {
	m.NameKey = CategoryNameKey(m.Name)
	return nil
}

func (m *CategoryModel) ToEntity() *entity.Category {
	c := entity.NewCategory(m.Name, m.Color, m.Icon, entity.OwnerType(m.OwnerType), m.OwnerID)
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return c
}

func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:        category.ID,
		Name:      category.Name,
		NameKey:   CategoryNameKey(category.Name),
		Color:     category.Color,
		Icon:      category.Icon,
		OwnerType: string(category.OwnerType),
		OwnerID:   category.OwnerID,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
