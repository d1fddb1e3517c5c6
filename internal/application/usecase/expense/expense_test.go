package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

type memGroupRepo struct {
	members []*entity.GroupMember
}

func (r *memGroupRepo) CreateGroup(ctx context.Context, group *entity.Group) error { return nil }

func (r *memGroupRepo) FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	return nil, nil
}

func (r *memGroupRepo) FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error) {
	return nil, nil
}

func (r *memGroupRepo) CreateMember(ctx context.Context, member *entity.GroupMember) error {
	r.members = append(r.members, member)
	return nil
}

func (r *memGroupRepo) FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.GroupMember, error) {
	for _, m := range r.members {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memGroupRepo) FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.GroupMember, error) {
	var out []*entity.GroupMember
	for _, m := range r.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memGroupRepo) IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	m, _ := r.FindMemberByGroupAndUser(ctx, groupID, userID)
	return m != nil, nil
}

type memExpenseRepo struct {
	expenses map[uuid.UUID]*entity.Expense
	deleted  []uuid.UUID
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{expenses: make(map[uuid.UUID]*entity.Expense)}
}

func (r *memExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	r.expenses[expense.ID] = expense
	return nil
}

func (r *memExpenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	return r.expenses[id], nil
}

func (r *memExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memExpenseRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.GroupID != nil && *e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpenseRepo) ListPersonalByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	return nil, nil
}

type fixture struct {
	groupID uuid.UUID
	admin   uuid.UUID
	alice   uuid.UUID
	bob     uuid.UUID
	groups  *memGroupRepo
	repo    *memExpenseRepo
}

func newFixture() *fixture {
	f := &fixture{
		groupID: uuid.New(),
		admin:   uuid.New(),
		alice:   uuid.New(),
		bob:     uuid.New(),
		groups:  &memGroupRepo{},
		repo:    newMemExpenseRepo(),
	}
	f.groups.members = []*entity.GroupMember{
		entity.NewGroupMember(f.groupID, f.admin, entity.MemberRoleAdmin),
		entity.NewGroupMember(f.groupID, f.alice, entity.MemberRoleMember),
		entity.NewGroupMember(f.groupID, f.bob, entity.MemberRoleMember),
	}
	return f
}

func expenseCode(t *testing.T, err error) domainerror.ExpenseErrorCode {
	t.Helper()
	var expErr *domainerror.ExpenseError
	require.True(t, errors.As(err, &expErr), "expected ExpenseError, got %v", err)
	return expErr.Code
}

func TestCreateGroupExpenseUseCase_Execute(t *testing.T) {
	t.Run("explicit splits", func(t *testing.T) {
		f := newFixture()
		uc := NewCreateGroupExpenseUseCase(f.repo, f.groups)

		out, err := uc.Execute(context.Background(), CreateGroupExpenseInput{
			GroupID:  f.groupID,
			UserID:   f.alice,
			Amount:   decimal.RequireFromString("100"),
			Currency: "eur",
			Splits: []SplitInput{
				{UserID: f.alice, Amount: decimal.RequireFromString("60")},
				{UserID: f.bob, Amount: decimal.RequireFromString("40")},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "EUR", out.Expense.Currency)
		assert.Equal(t, f.alice, out.Expense.PayerID)
		assert.True(t, out.Expense.IsGroupExpense())
		assert.False(t, out.Expense.Date.IsZero())
		assert.Len(t, f.repo.expenses, 1)
	})

	t.Run("equal split hands leftover cents to the first participants", func(t *testing.T) {
		f := newFixture()
		uc := NewCreateGroupExpenseUseCase(f.repo, f.groups)
		payer := f.bob

		out, err := uc.Execute(context.Background(), CreateGroupExpenseInput{
			GroupID:      f.groupID,
			UserID:       f.alice,
			PayerID:      &payer,
			Amount:       decimal.RequireFromString("100"),
			Currency:     "USD",
			Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			SplitEqually: []uuid.UUID{f.admin, f.alice, f.bob},
		})

		require.NoError(t, err)
		require.Len(t, out.Expense.Splits, 3)
		assert.Equal(t, "33.34", out.Expense.Splits[0].ShareAmount.StringFixed(2))
		assert.Equal(t, "33.33", out.Expense.Splits[1].ShareAmount.StringFixed(2))
		assert.Equal(t, "33.33", out.Expense.Splits[2].ShareAmount.StringFixed(2))
		assert.True(t, out.Expense.SplitTotal().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, f.bob, out.Expense.PayerID)
	})

	t.Run("equal split in a zero-decimal currency", func(t *testing.T) {
		f := newFixture()
		uc := NewCreateGroupExpenseUseCase(f.repo, f.groups)

		out, err := uc.Execute(context.Background(), CreateGroupExpenseInput{
			GroupID:      f.groupID,
			UserID:       f.alice,
			Amount:       decimal.RequireFromString("1000"),
			Currency:     "JPY",
			SplitEqually: []uuid.UUID{f.admin, f.alice, f.bob},
		})

		require.NoError(t, err)
		assert.Equal(t, "334", out.Expense.Splits[0].ShareAmount.String())
		assert.Equal(t, "333", out.Expense.Splits[2].ShareAmount.String())
	})

	tests := []struct {
		name  string
		input func(f *fixture) CreateGroupExpenseInput
		code  domainerror.ExpenseErrorCode
	}{
		{
			name: "non-positive amount",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.Zero, Currency: "USD", SplitEqually: []uuid.UUID{f.alice}}
			},
			code: domainerror.ErrCodeExpenseInvalidAmount,
		},
		{
			name: "invalid currency",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(5), Currency: "EURO", SplitEqually: []uuid.UUID{f.alice}}
			},
			code: domainerror.ErrCodeExpenseInvalidCurrency,
		},
		{
			name: "no splits",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(5), Currency: "USD"}
			},
			code: domainerror.ErrCodeSplitsRequired,
		},
		{
			name: "split sum mismatch",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(10), Currency: "USD",
					Splits: []SplitInput{{UserID: f.alice, Amount: decimal.NewFromInt(4)}, {UserID: f.bob, Amount: decimal.NewFromInt(4)}}}
			},
			code: domainerror.ErrCodeExpenseSplitSum,
		},
		{
			name: "split user outside the group",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(10), Currency: "USD",
					Splits: []SplitInput{{UserID: uuid.New(), Amount: decimal.NewFromInt(10)}}}
			},
			code: domainerror.ErrCodeExpenseSplitNotMember,
		},
		{
			name: "duplicate split user",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(10), Currency: "USD",
					Splits: []SplitInput{{UserID: f.bob, Amount: decimal.NewFromInt(5)}, {UserID: f.bob, Amount: decimal.NewFromInt(5)}}}
			},
			code: domainerror.ErrCodeDuplicateSplitUser,
		},
		{
			name: "negative share",
			input: func(f *fixture) CreateGroupExpenseInput {
				return CreateGroupExpenseInput{GroupID: f.groupID, UserID: f.alice, Amount: decimal.NewFromInt(10), Currency: "USD",
					Splits: []SplitInput{{UserID: f.alice, Amount: decimal.NewFromInt(15)}, {UserID: f.bob, Amount: decimal.NewFromInt(-5)}}}
			},
			code: domainerror.ErrCodeExpenseNegativeShare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			uc := NewCreateGroupExpenseUseCase(f.repo, f.groups)

			_, err := uc.Execute(context.Background(), tt.input(f))

			assert.Equal(t, tt.code, expenseCode(t, err))
			assert.Empty(t, f.repo.expenses)
		})
	}

	t.Run("non-member cannot add expenses", func(t *testing.T) {
		f := newFixture()
		uc := NewCreateGroupExpenseUseCase(f.repo, f.groups)

		_, err := uc.Execute(context.Background(), CreateGroupExpenseInput{
			GroupID: f.groupID, UserID: uuid.New(), Amount: decimal.NewFromInt(1), Currency: "USD", SplitEqually: []uuid.UUID{f.alice},
		})

		assert.ErrorIs(t, err, domainerror.ErrNotGroupMember)
	})
}

func TestCreatePersonalExpenseUseCase_Execute(t *testing.T) {
	repo := newMemExpenseRepo()
	uc := NewCreatePersonalExpenseUseCase(repo)
	userID := uuid.New()

	out, err := uc.Execute(context.Background(), CreatePersonalExpenseInput{
		UserID:      userID,
		Amount:      decimal.RequireFromString("12.50"),
		Currency:    "GBP",
		Description: "  books ",
	})

	require.NoError(t, err)
	assert.True(t, out.Expense.IsPersonal)
	assert.Nil(t, out.Expense.GroupID)
	assert.Equal(t, "books", out.Expense.Description)
	require.Len(t, out.Expense.Splits, 1)
	assert.Equal(t, userID, out.Expense.Splits[0].UserID)

	_, err = uc.Execute(context.Background(), CreatePersonalExpenseInput{UserID: userID, Amount: decimal.NewFromInt(-1), Currency: "GBP"})
	assert.Equal(t, domainerror.ErrCodeExpenseInvalidAmount, expenseCode(t, err))
}

func TestDeleteGroupExpenseUseCase_Execute(t *testing.T) {
	setup := func() (*fixture, *entity.Expense, *DeleteGroupExpenseUseCase) {
		f := newFixture()
		exp := entity.NewGroupExpense(f.groupID, f.alice, decimal.NewFromInt(10), "USD", time.Now(), "taxi", nil,
			[]entity.Split{{UserID: f.alice, ShareAmount: decimal.NewFromInt(5)}, {UserID: f.bob, ShareAmount: decimal.NewFromInt(5)}})
		_ = f.repo.Create(context.Background(), exp)
		return f, exp, NewDeleteGroupExpenseUseCase(f.repo, f.groups)
	}

	t.Run("payer can delete", func(t *testing.T) {
		f, exp, uc := setup()
		require.NoError(t, uc.Execute(context.Background(), DeleteGroupExpenseInput{GroupID: f.groupID, ExpenseID: exp.ID, UserID: f.alice}))
		assert.Equal(t, []uuid.UUID{exp.ID}, f.repo.deleted)
	})

	t.Run("admin can delete", func(t *testing.T) {
		f, exp, uc := setup()
		require.NoError(t, uc.Execute(context.Background(), DeleteGroupExpenseInput{GroupID: f.groupID, ExpenseID: exp.ID, UserID: f.admin}))
	})

	t.Run("other members cannot", func(t *testing.T) {
		f, exp, uc := setup()
		err := uc.Execute(context.Background(), DeleteGroupExpenseInput{GroupID: f.groupID, ExpenseID: exp.ID, UserID: f.bob})
		assert.Equal(t, domainerror.ErrCodeNotExpenseOwner, expenseCode(t, err))
		assert.Empty(t, f.repo.deleted)
	})

	t.Run("expense from another group is not found", func(t *testing.T) {
		f, exp, uc := setup()
		other := uuid.New()
		f.groups.members = append(f.groups.members, entity.NewGroupMember(other, f.alice, entity.MemberRoleAdmin))

		err := uc.Execute(context.Background(), DeleteGroupExpenseInput{GroupID: other, ExpenseID: exp.ID, UserID: f.alice})
		assert.Equal(t, domainerror.ErrCodeExpenseNotFound, expenseCode(t, err))
	})
}
