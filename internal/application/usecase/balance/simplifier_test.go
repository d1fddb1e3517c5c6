package balance

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/domain/entity"
)

var usdEpsilon = decimal.RequireFromString("0.005")

func balancesOf(g *testGroup, pairs ...string) []entity.NetBalance {
	out := make([]entity.NetBalance, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entity.NetBalance{UserID: g.id(pairs[i]), NetBalance: dec(pairs[i+1])})
	}
	return out
}

func TestSimplify(t *testing.T) {
	g := newTestGroup("A", "B", "C", "D")

	tests := []struct {
		name     string
		balances []entity.NetBalance
		want     []string
	}{
		{
			name:     "one debtor one creditor",
			balances: balancesOf(g, "A", "50", "B", "-50"),
			want:     []string{"B->A:50"},
		},
		{
			name:     "one debtor two creditors",
			balances: balancesOf(g, "A", "40", "B", "20", "C", "-60"),
			want:     []string{"C->A:40", "C->B:20"},
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: balancesOf(g, "A", "70", "B", "-30", "C", "-50", "D", "10"),
			want:     []string{"C->A:50", "B->A:20", "B->D:10"},
		},
		{
			name:     "ties are broken by user id",
			balances: balancesOf(g, "A", "-25", "B", "-25", "C", "25", "D", "25"),
			want:     []string{"A->C:25", "B->D:25"},
		},
		{
			name:     "all zero yields nothing",
			balances: balancesOf(g, "A", "0", "B", "0", "C", "0"),
			want:     []string{},
		},
		{
			name:     "balances within epsilon count as settled",
			balances: balancesOf(g, "A", "0.004", "B", "-0.004"),
			want:     []string{},
		},
		{
			name:     "dust residue is never emitted",
			balances: balancesOf(g, "A", "10.003", "B", "-10"),
			want:     []string{"B->A:10"},
		},
		{
			name:     "empty input",
			balances: nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debts := Simplify(tt.balances, usdEpsilon)

			got := make([]string, 0, len(debts))
			names := map[uuid.UUID]string{}
			for name, id := range g.ids {
				names[id] = name
			}
			for _, d := range debts {
				got = append(got, fmt.Sprintf("%s->%s:%s", names[d.FromUserID], names[d.ToUserID], d.Amount.String()))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimplify_SettlesRandomBalances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := 2 + rng.Intn(8)
		balances := make([]entity.NetBalance, n)
		sum := decimal.Zero
		for i := 0; i < n-1; i++ {
			amount := decimal.New(rng.Int63n(200000)-100000, -2)
			balances[i] = entity.NetBalance{UserID: uuid.New(), NetBalance: amount}
			sum = sum.Add(amount)
		}
		balances[n-1] = entity.NetBalance{UserID: uuid.New(), NetBalance: sum.Neg()}

		debts := Simplify(balances, usdEpsilon)

		require.LessOrEqual(t, len(debts), n-1)
		for _, d := range debts {
			require.True(t, d.Amount.GreaterThan(usdEpsilon), "debt %s is dust", d.Amount.String())
			require.NotEqual(t, d.FromUserID, d.ToUserID)
		}
		for _, b := range ApplyDebts(balances, debts) {
			require.True(t, b.NetBalance.Abs().LessThanOrEqual(usdEpsilon), "residual %s", b.NetBalance.String())
		}

		again := Simplify(balances, usdEpsilon)
		require.Equal(t, len(debts), len(again))
		for i := range debts {
			require.Equal(t, debts[i].FromUserID, again[i].FromUserID)
			require.Equal(t, debts[i].ToUserID, again[i].ToUserID)
			require.True(t, debts[i].Amount.Equal(again[i].Amount))
		}
	}
}

func TestSimplify_DoesNotMutateInput(t *testing.T) {
	g := newTestGroup("A", "B")
	balances := balancesOf(g, "A", "50", "B", "-50")

	Simplify(balances, usdEpsilon)

	assertDecimal(t, "50", balances[0].NetBalance)
	assertDecimal(t, "-50", balances[1].NetBalance)
}

func TestApplyDebts(t *testing.T) {
	g := newTestGroup("A", "B", "C")
	balances := balancesOf(g, "A", "40", "B", "20", "C", "-60")

	after := ApplyDebts(balances, []entity.Debt{
		{FromUserID: g.id("C"), ToUserID: g.id("A"), Amount: dec("40")},
		{FromUserID: g.id("C"), ToUserID: g.id("B"), Amount: dec("20")},
	})

	for _, b := range after {
		assert.True(t, b.NetBalance.IsZero())
	}
	assertDecimal(t, "40", balances[0].NetBalance)
}
