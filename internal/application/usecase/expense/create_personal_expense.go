package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
)

// CreatePersonalExpenseInput represents the input for creating a personal expense.
type CreatePersonalExpenseInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Description string
	CategoryID  *uuid.UUID
}

// CreatePersonalExpenseOutput represents the output of creating a personal expense.
type CreatePersonalExpenseOutput struct {
	Expense *entity.Expense
}

// CreatePersonalExpenseUseCase handles personal expense creation.
type CreatePersonalExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewCreatePersonalExpenseUseCase creates a new CreatePersonalExpenseUseCase instance.
func NewCreatePersonalExpenseUseCase(expenseRepo adapter.ExpenseRepository) *CreatePersonalExpenseUseCase {
	return &CreatePersonalExpenseUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute validates and stores the expense.
func (uc *CreatePersonalExpenseUseCase) Execute(ctx context.Context, input CreatePersonalExpenseInput) (*CreatePersonalExpenseOutput, error) {
	currency, err := validateAmount(input.Amount, input.Currency, input.Description)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	expense := entity.NewPersonalExpense(input.UserID, input.Amount, currency.String(), date,
		strings.TrimSpace(input.Description), input.CategoryID)

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreatePersonalExpenseOutput{Expense: expense}, nil
}
