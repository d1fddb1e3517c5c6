package balance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/groupledger/backend/internal/domain/entity"
)

var errProviderDown = errors.New("provider down")

type rateCall struct {
	from string
	to   string
	on   *time.Time
}

// fakeRateProvider serves latest rates by pair and historical rates by pair and date,
// substituting the nearest earlier date like a real provider would.
type fakeRateProvider struct {
	mu         sync.Mutex
	latest     map[string]decimal.Decimal
	historical map[string][]*entity.ExchangeRate
	failing    map[string]bool
	block      bool
	calls      []rateCall
}

func newFakeRateProvider() *fakeRateProvider {
	return &fakeRateProvider{
		latest:     make(map[string]decimal.Decimal),
		historical: make(map[string][]*entity.ExchangeRate),
		failing:    make(map[string]bool),
	}
}

func (p *fakeRateProvider) withLatest(from, to, rate string) *fakeRateProvider {
	p.latest[from+":"+to] = decimal.RequireFromString(rate)
	return p
}

func (p *fakeRateProvider) withHistorical(from, to, day, rate string) *fakeRateProvider {
	asOf, _ := time.Parse("2006-01-02", day)
	p.historical[from+":"+to] = append(p.historical[from+":"+to], &entity.ExchangeRate{
		From: from, To: to, Rate: decimal.RequireFromString(rate), AsOf: asOf, Source: entity.RateProviderStored,
	})
	return p
}

func (p *fakeRateProvider) withFailure(from, to string) *fakeRateProvider {
	p.failing[from+":"+to] = true
	return p
}

func (p *fakeRateProvider) GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error) {
	p.mu.Lock()
	p.calls = append(p.calls, rateCall{from: from, to: to, on: on})
	block := p.block
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	key := from + ":" + to
	if p.failing[key] {
		return nil, errProviderDown
	}

	if on == nil {
		rate, ok := p.latest[key]
		if !ok {
			return nil, nil
		}
		return &entity.ExchangeRate{From: from, To: to, Rate: rate, AsOf: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Source: entity.RateProviderAPI}, nil
	}

	var best *entity.ExchangeRate
	for _, r := range p.historical[key] {
		if r.AsOf.After(*on) {
			continue
		}
		if best == nil || r.AsOf.After(best.AsOf) {
			best = r
		}
	}
	return best, nil
}

func (p *fakeRateProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// testGroup builds a group with named members whose IDs sort in name order.
type testGroup struct {
	group   *entity.Group
	members []*entity.GroupMember
	ids     map[string]uuid.UUID
}

func newTestGroup(names ...string) *testGroup {
	g := &testGroup{
		group: &entity.Group{ID: uuid.MustParse("99999999-0000-0000-0000-000000000000"), Name: "Trip"},
		ids:   make(map[string]uuid.UUID),
	}
	for i, name := range names {
		id := uuid.MustParse("00000000-0000-0000-0000-00000000000" + string(rune('1'+i)))
		g.ids[name] = id
		g.members = append(g.members, &entity.GroupMember{
			ID:       uuid.New(),
			GroupID:  g.group.ID,
			UserID:   id,
			Role:     entity.MemberRoleMember,
			UserName: name,
		})
	}
	return g
}

func (g *testGroup) id(name string) uuid.UUID {
	return g.ids[name]
}

// expense builds a group expense; shares alternate name, amount.
func (g *testGroup) expense(payer, amount, currency string, shares ...string) *entity.Expense {
	splits := make([]entity.Split, 0, len(shares)/2)
	for i := 0; i+1 < len(shares); i += 2 {
		splits = append(splits, entity.Split{UserID: g.id(shares[i]), ShareAmount: dec(shares[i+1])})
	}
	return entity.NewGroupExpense(g.group.ID, g.id(payer), dec(amount), currency,
		time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), "expense", nil, splits)
}
