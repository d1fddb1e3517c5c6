package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// ListGroupExpensesInput represents the input for listing a group's expenses.
type ListGroupExpensesInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// ListGroupExpensesOutput represents the output of listing a group's expenses.
type ListGroupExpensesOutput struct {
	Expenses []*entity.Expense
}

// ListGroupExpensesUseCase lists the expenses of a group.
type ListGroupExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
	groupRepo   adapter.GroupRepository
}

// NewListGroupExpensesUseCase creates a new ListGroupExpensesUseCase instance.
func NewListGroupExpensesUseCase(expenseRepo adapter.ExpenseRepository, groupRepo adapter.GroupRepository) *ListGroupExpensesUseCase {
	return &ListGroupExpensesUseCase{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
	}
}

// Execute performs the listing.
func (uc *ListGroupExpensesUseCase) Execute(ctx context.Context, input ListGroupExpensesInput) (*ListGroupExpensesOutput, error) {
	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.GroupID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}

	expenses, err := uc.expenseRepo.ListByGroup(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []*entity.Expense{}
	}

	return &ListGroupExpensesOutput{Expenses: expenses}, nil
}
