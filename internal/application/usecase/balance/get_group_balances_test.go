package balance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

type fakeGroupRepo struct {
	group   *entity.Group
	members []*entity.GroupMember
}

func (r *fakeGroupRepo) CreateGroup(ctx context.Context, group *entity.Group) error { return nil }

func (r *fakeGroupRepo) FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	if r.group != nil && r.group.ID == id {
		return r.group, nil
	}
	return nil, nil
}

func (r *fakeGroupRepo) FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error) {
	return nil, nil
}

func (r *fakeGroupRepo) CreateMember(ctx context.Context, member *entity.GroupMember) error {
	return nil
}

func (r *fakeGroupRepo) FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.GroupMember, error) {
	for _, m := range r.members {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.GroupMember, error) {
	return r.members, nil
}

func (r *fakeGroupRepo) IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	m, _ := r.FindMemberByGroupAndUser(ctx, groupID, userID)
	return m != nil, nil
}

type fakeExpenseRepo struct {
	expenses []*entity.Expense
	err      error
}

func (r *fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeExpenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeExpenseRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Expense, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.GroupID != nil && *e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) ListPersonalByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.IsPersonal && e.PayerID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type fakeCategoryRepo struct {
	categories []*entity.Category
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error { return nil }

func (r *fakeCategoryRepo) FindByOwner(ctx context.Context, ownerType entity.OwnerType, ownerID uuid.UUID) ([]*entity.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) ExistsByNameAndOwner(ctx context.Context, name string, ownerType entity.OwnerType, ownerID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeMetrics struct {
	summaries int
	lastMode  entity.ConversionMode
	lastStats entity.ConversionStats
}

func (m *fakeMetrics) ObserveSummary(mode entity.ConversionMode, elapsed time.Duration, stats entity.ConversionStats, issues []entity.ComputationIssue) {
	m.summaries++
	m.lastMode = mode
	m.lastStats = stats
}

func (m *fakeMetrics) ObserveRateLookup(source, outcome string) {}

type balancesFixture struct {
	g        *testGroup
	groups   *fakeGroupRepo
	expenses *fakeExpenseRepo
	users    *fakeUserRepo
	metrics  *fakeMetrics
	uc       *GetGroupBalancesUseCase
}

func newBalancesFixture(provider *fakeRateProvider) *balancesFixture {
	g := newTestGroup("A", "B")
	f := &balancesFixture{
		g:        g,
		groups:   &fakeGroupRepo{group: g.group, members: g.members},
		expenses: &fakeExpenseRepo{},
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewGetGroupBalancesUseCase(
		f.groups,
		f.expenses,
		f.users,
		&fakeCategoryRepo{},
		newTestSummarizer(provider),
		f.metrics,
		Defaults{DisplayCurrency: "USD", ConversionMode: entity.ConversionModeSimple},
	)
	return f
}

func TestGetGroupBalancesUseCase_Execute(t *testing.T) {
	t.Run("computes the summary for a member", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())
		_ = f.expenses.Create(context.Background(), f.g.expense("A", "100", "USD", "A", "50", "B", "50"))

		out, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("B")})

		require.NoError(t, err)
		require.Len(t, out.Summary.SimplifiedDebts, 1)
		assert.Equal(t, f.g.id("B"), out.Summary.SimplifiedDebts[0].FromUserID)
		assert.Equal(t, "USD", out.Summary.DisplayCurrency)
		assert.Equal(t, 1, f.metrics.summaries)
		assert.Equal(t, entity.ConversionModeSimple, f.metrics.lastMode)
	})

	t.Run("rejects non-members", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())

		_, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: uuid.New()})

		var groupErr *domainerror.GroupError
		require.True(t, errors.As(err, &groupErr))
		assert.Equal(t, domainerror.ErrCodeNotGroupMember, groupErr.Code)
	})

	t.Run("uses the user's preferences when the request has none", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider().withLatest("USD", "EUR", "0.5"))
		f.users.users[f.g.id("A")] = &entity.User{ID: f.g.id("A"), DisplayCurrency: "EUR", ConversionMode: entity.ConversionModeOff}
		_ = f.expenses.Create(context.Background(), f.g.expense("A", "100", "USD", "A", "50", "B", "50"))

		out, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A")})

		require.NoError(t, err)
		assert.Equal(t, "EUR", out.Summary.DisplayCurrency)
		assert.Equal(t, entity.ConversionModeOff, out.Summary.ConversionMode)
		assertDecimal(t, "50", out.Summary.TotalExpenses)
	})

	t.Run("request settings override preferences", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())
		f.users.users[f.g.id("A")] = &entity.User{ID: f.g.id("A"), DisplayCurrency: "EUR", ConversionMode: entity.ConversionModeOff}

		out, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{
			GroupID:         f.g.group.ID,
			UserID:          f.g.id("A"),
			DisplayCurrency: "JPY",
			ConversionMode:  "SMART",
		})

		require.NoError(t, err)
		assert.Equal(t, "JPY", out.Summary.DisplayCurrency)
		assert.Equal(t, entity.ConversionModeSmart, out.Summary.ConversionMode)
	})

	t.Run("invalid currency is a balance error", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())

		_, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A"), DisplayCurrency: "XX"})

		assert.ErrorIs(t, err, domainerror.ErrInvalidDisplayCurrency)
		assert.Equal(t, 0, f.metrics.summaries)
	})

	t.Run("includes personal expenses on request", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())
		_ = f.expenses.Create(context.Background(), f.g.expense("A", "60", "USD", "A", "30", "B", "30"))
		_ = f.expenses.Create(context.Background(), entity.NewPersonalExpense(f.g.id("A"), dec("40"), "USD", time.Now(), "gym", nil))

		out, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A"), IncludePersonal: true})

		require.NoError(t, err)
		assertDecimal(t, "40", out.Summary.PersonalVsGroup.PersonalTotal)
		assert.Equal(t, 40.0, out.Summary.PersonalVsGroup.PersonalPercentage)
		assertDecimal(t, "60", out.Summary.TotalExpenses)
	})

	t.Run("personal expenses reuse the group's rate lookups", func(t *testing.T) {
		provider := newFakeRateProvider().withLatest("EUR", "USD", "1.1")
		f := newBalancesFixture(provider)
		_ = f.expenses.Create(context.Background(), f.g.expense("A", "100", "EUR", "A", "50", "B", "50"))
		_ = f.expenses.Create(context.Background(), entity.NewPersonalExpense(f.g.id("A"), dec("20"), "EUR", time.Now(), "museum", nil))

		out, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A"), IncludePersonal: true})

		require.NoError(t, err)
		assert.Equal(t, 1, provider.callCount())
		assertDecimal(t, "22", out.Summary.PersonalVsGroup.PersonalTotal)
		assertDecimal(t, "110", out.Summary.TotalExpenses)
	})

	t.Run("logs each issue with its expense", func(t *testing.T) {
		var buf bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
		t.Cleanup(func() { slog.SetDefault(previous) })

		f := newBalancesFixture(newFakeRateProvider())
		exp := f.g.expense("A", "100", "EUR", "A", "50", "B", "50")
		_ = f.expenses.Create(context.Background(), exp)

		_, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A")})
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
		assert.Equal(t, "Balance computation issue", entry["msg"])
		assert.Equal(t, f.g.group.ID.String(), entry["group_id"])
		assert.Equal(t, exp.ID.String(), entry["expense_id"])
		assert.Equal(t, string(domainerror.ErrCodeConversionUnavailable), entry["code"])
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		f := newBalancesFixture(newFakeRateProvider())
		f.expenses.err = errors.New("connection reset")

		_, err := f.uc.Execute(context.Background(), GetGroupBalancesInput{GroupID: f.g.group.ID, UserID: f.g.id("A")})

		assert.ErrorContains(t, err, "connection reset")
	})
}
