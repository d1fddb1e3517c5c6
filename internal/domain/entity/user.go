package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayCurrency is assigned to new users until they pick their own.
const DefaultDisplayCurrency = "USD"

// User represents a registered account.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	PasswordHash    string
	DisplayCurrency string
	ConversionMode  ConversionMode
	TermsAcceptedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, name, passwordHash string, termsAcceptedAt time.Time) *User {
	now := time.Now().UTC()
	return &User{
		ID:              uuid.New(),
		Email:           email,
		Name:            name,
		PasswordHash:    passwordHash,
		DisplayCurrency: DefaultDisplayCurrency,
		ConversionMode:  ConversionModeSimple,
		TermsAcceptedAt: termsAcceptedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
