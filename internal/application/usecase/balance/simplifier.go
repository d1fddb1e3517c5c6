package balance

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
)

type party struct {
	userID uuid.UUID
	key    string
	amount decimal.Decimal
}

// Simplify turns net balances into a list of settlement debts.
//
// The largest debtor pays the largest creditor the smaller of the two amounts,
// settled parties drop out and the rest are re-ranked, until one side is empty.
// Ties are broken by user ID so the output is deterministic. Balances within
// epsilon of zero count as settled and residues below epsilon are never emitted.
//
// The greedy pass does not always find the fewest possible transfers, which is
// an NP-hard problem in general; it emits at most n-1 debts for n parties.
func Simplify(balances []entity.NetBalance, epsilon decimal.Decimal) []entity.Debt {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.NetBalance.GreaterThan(epsilon):
			creditors = append(creditors, party{userID: b.UserID, key: b.UserID.String(), amount: b.NetBalance})
		case b.NetBalance.LessThan(epsilon.Neg()):
			debtors = append(debtors, party{userID: b.UserID, key: b.UserID.String(), amount: b.NetBalance.Neg()})
		}
	}

	debts := make([]entity.Debt, 0)
	for len(creditors) > 0 && len(debtors) > 0 {
		slices.SortFunc(creditors, byLargest)
		slices.SortFunc(debtors, byLargest)

		creditor := &creditors[0]
		debtor := &debtors[0]

		amount := decimal.Min(creditor.amount, debtor.amount)
		debts = append(debts, entity.Debt{
			FromUserID: debtor.userID,
			ToUserID:   creditor.userID,
			Amount:     amount,
		})

		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Sub(amount)

		creditors = dropSettled(creditors, epsilon)
		debtors = dropSettled(debtors, epsilon)
	}

	return debts
}

// ApplyDebts returns balances after every debt is paid: the debtor's balance
// rises by the amount and the creditor's falls by it.
func ApplyDebts(balances []entity.NetBalance, debts []entity.Debt) []entity.NetBalance {
	out := make([]entity.NetBalance, len(balances))
	index := make(map[uuid.UUID]int, len(balances))
	for i, b := range balances {
		out[i] = b
		index[b.UserID] = i
	}

	for _, d := range debts {
		if i, ok := index[d.FromUserID]; ok {
			out[i].NetBalance = out[i].NetBalance.Add(d.Amount)
		}
		if i, ok := index[d.ToUserID]; ok {
			out[i].NetBalance = out[i].NetBalance.Sub(d.Amount)
		}
	}
	return out
}

func byLargest(a, b party) int {
	if c := b.amount.Cmp(a.amount); c != 0 {
		return c
	}
	return strings.Compare(a.key, b.key)
}

func dropSettled(parties []party, epsilon decimal.Decimal) []party {
	kept := parties[:0]
	for _, p := range parties {
		if p.amount.GreaterThan(epsilon) {
			kept = append(kept, p)
		}
	}
	return kept
}
