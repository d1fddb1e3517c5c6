// Package model maps domain entities to their GORM table rows.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/domain/entity"
)

// UserModel represents the users table. Emails are stored normalized.
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string    `gorm:"type:varchar(100);not null"`
	PasswordHash    string    `gorm:"type:varchar(255);not null"`
	DisplayCurrency string    `gorm:"type:varchar(3);not null;default:'USD'"`
	ConversionMode  string    `gorm:"type:varchar(10);not null;default:'simple'"`
	TermsAcceptedAt time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:              m.ID,
		Email:           m.Email,
		Name:            m.Name,
		PasswordHash:    m.PasswordHash,
		DisplayCurrency: m.DisplayCurrency,
		ConversionMode:  entity.ConversionMode(m.ConversionMode),
		TermsAcceptedAt: m.TermsAcceptedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func UserFromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		PasswordHash:    user.PasswordHash,
		DisplayCurrency: user.DisplayCurrency,
		ConversionMode:  string(user.ConversionMode),
		TermsAcceptedAt: user.TermsAcceptedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
