// Package expense contains group and personal expense use cases.
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
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 255

// SplitInput is one explicit share of an expense.
type SplitInput struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// CreateGroupExpenseInput represents the input for creating a group expense.
// Either Splits or SplitEqually must be set; Splits wins when both are.
type CreateGroupExpenseInput struct {
	GroupID      uuid.UUID
	UserID       uuid.UUID
	PayerID      *uuid.UUID // Optional, defaults to UserID
	Amount       decimal.Decimal
	Currency     string
	Date         time.Time
	Description  string
	CategoryID   *uuid.UUID
	Splits       []SplitInput
	SplitEqually []uuid.UUID
}

// CreateGroupExpenseOutput represents the output of creating a group expense.
type CreateGroupExpenseOutput struct {
	Expense *entity.Expense
}

// CreateGroupExpenseUseCase handles group expense creation.
type CreateGroupExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	groupRepo   adapter.GroupRepository
}

// NewCreateGroupExpenseUseCase creates a new CreateGroupExpenseUseCase instance.
func NewCreateGroupExpenseUseCase(expenseRepo adapter.ExpenseRepository, groupRepo adapter.GroupRepository) *CreateGroupExpenseUseCase {
	return &CreateGroupExpenseUseCase{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
	}
}

// Execute validates and stores the expense.
func (uc *CreateGroupExpenseUseCase) Execute(ctx context.Context, input CreateGroupExpenseInput) (*CreateGroupExpenseOutput, error) {
	members, err := uc.groupRepo.FindMembersByGroupID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	memberSet := entity.MemberSet(members)

	if _, ok := memberSet[input.UserID]; !ok {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}

	payerID := input.UserID
	if input.PayerID != nil {
		payerID = *input.PayerID
	}
	if _, ok := memberSet[payerID]; !ok {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseSplitNotMember,
			"payer is not a member of this group",
			domainerror.ErrSplitUserNotMember,
		)
	}

	currency, err := validateAmount(input.Amount, input.Currency, input.Description)
	if err != nil {
		return nil, err
	}

	var splits []entity.Split
	if len(input.Splits) > 0 {
		splits, err = explicitSplits(input.Splits, input.Amount, currency, memberSet)
	} else {
		splits, err = equalSplits(input.SplitEqually, input.Amount, currency, memberSet)
	}
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	expense := entity.NewGroupExpense(input.GroupID, payerID, input.Amount, currency.String(), date,
		strings.TrimSpace(input.Description), input.CategoryID, splits)

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreateGroupExpenseOutput{Expense: expense}, nil
}

// validateAmount checks the fields shared by group and personal expenses.
func validateAmount(amount decimal.Decimal, currency, description string) (valueobject.CurrencyCode, error) {
	if !amount.IsPositive() {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInvalidAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}

	code, ok := valueobject.ParseCurrency(currency)
	if !ok {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInvalidCurrency,
			fmt.Sprintf("currency %q is not a valid ISO 4217 code", currency),
			domainerror.ErrInvalidCurrency,
		)
	}

	if len(description) > MaxDescriptionLength {
		return "", domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInvalidFields,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			nil,
		)
	}
	return code, nil
}

func explicitSplits(inputs []SplitInput, amount decimal.Decimal, currency valueobject.CurrencyCode, members map[uuid.UUID]*entity.GroupMember) ([]entity.Split, error) {
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	splits := make([]entity.Split, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		if _, ok := members[in.UserID]; !ok {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseSplitNotMember,
				fmt.Sprintf("user %s is not a member of this group", in.UserID),
				domainerror.ErrSplitUserNotMember,
			)
		}
		if _, dup := seen[in.UserID]; dup {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeDuplicateSplitUser,
				fmt.Sprintf("user %s appears more than once", in.UserID),
				domainerror.ErrDuplicateSplitUser,
			)
		}
		if in.Amount.IsNegative() {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNegativeShare,
				"split share cannot be negative",
				domainerror.ErrNegativeShare,
			)
		}
		seen[in.UserID] = struct{}{}
		total = total.Add(in.Amount)
		splits = append(splits, entity.Split{UserID: in.UserID, ShareAmount: in.Amount})
	}

	if total.Sub(amount).Abs().GreaterThan(currency.Epsilon()) {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseSplitSum,
			fmt.Sprintf("split shares add up to %s, expected %s", total.String(), amount.String()),
			domainerror.ErrSplitSumMismatch,
		)
	}
	return splits, nil
}

// equalSplits divides amount evenly in the currency's minor unit. Leftover
// minor units go one each to the first participants.
func equalSplits(userIDs []uuid.UUID, amount decimal.Decimal, currency valueobject.CurrencyCode, members map[uuid.UUID]*entity.GroupMember) ([]entity.Split, error) {
	if len(userIDs) == 0 {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeSplitsRequired,
			"at least one split is required",
			domainerror.ErrSplitsRequired,
		)
	}

	inputs := make([]SplitInput, len(userIDs))
	count := decimal.NewFromInt(int64(len(userIDs)))
	base := amount.DivRound(count, currency.Scale()+4).RoundDown(currency.Scale())
	unit := decimal.New(1, -currency.Scale())
	remainder := amount.Sub(base.Mul(count))

	for i, id := range userIDs {
		share := base
		if remainder.GreaterThanOrEqual(unit) {
			share = share.Add(unit)
			remainder = remainder.Sub(unit)
		}
		inputs[i] = SplitInput{UserID: id, Amount: share}
	}
	if remainder.IsPositive() {
		// amount has more precision than the currency; the last share absorbs it
		inputs[len(inputs)-1].Amount = inputs[len(inputs)-1].Amount.Add(remainder)
	}

	return explicitSplits(inputs, amount, currency, members)
}
