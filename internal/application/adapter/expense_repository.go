package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/domain/entity"
)

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create stores an expense together with its splits.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense with its splits.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// Delete removes an expense and its splits.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByGroup retrieves all group expenses ordered by date, then creation time.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Expense, error)

	// ListPersonalByUser retrieves the personal expenses paid by a user.
	ListPersonalByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error)
}
