package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// DeleteGroupExpenseInput represents the input for deleting a group expense.
type DeleteGroupExpenseInput struct {
	GroupID   uuid.UUID
	ExpenseID uuid.UUID
	UserID    uuid.UUID
}

// DeleteGroupExpenseUseCase deletes a group expense.
// The payer and group admins may delete; balances follow on the next read.
type DeleteGroupExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	groupRepo   adapter.GroupRepository
}

// NewDeleteGroupExpenseUseCase creates a new DeleteGroupExpenseUseCase instance.
func NewDeleteGroupExpenseUseCase(expenseRepo adapter.ExpenseRepository, groupRepo adapter.GroupRepository) *DeleteGroupExpenseUseCase {
	return &DeleteGroupExpenseUseCase{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
	}
}

// Execute performs the deletion.
func (uc *DeleteGroupExpenseUseCase) Execute(ctx context.Context, input DeleteGroupExpenseInput) error {
	member, err := uc.groupRepo.FindMemberByGroupAndUser(ctx, input.GroupID, input.UserID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}

	expense, err := uc.expenseRepo.FindByID(ctx, input.ExpenseID)
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil || expense.GroupID == nil || *expense.GroupID != input.GroupID {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseNotFound,
			"expense not found",
			domainerror.ErrExpenseNotFound,
		)
	}

	if expense.PayerID != input.UserID && !member.IsAdmin() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeNotExpenseOwner,
			"only the payer or a group admin can delete this expense",
			domainerror.ErrNotExpenseOwner,
		)
	}

	if err := uc.expenseRepo.Delete(ctx, input.ExpenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
