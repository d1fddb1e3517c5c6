package balance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

const (
	// DefaultLookupConcurrency bounds parallel rate lookups when none is configured.
	DefaultLookupConcurrency = 4

	latestDateKey = "latest"
	dateKeyLayout = "2006-01-02"
)

// AggregateInput holds everything needed to net a group's expenses.
type AggregateInput struct {
	GroupID         uuid.UUID
	Expenses        []*entity.Expense
	Members         []*entity.GroupMember
	DisplayCurrency valueobject.CurrencyCode
	Mode            entity.ConversionMode
}

// AggregateResult is the outcome of netting a group's expenses.
type AggregateResult struct {
	// NetBalances has one entry per member, in member order.
	NetBalances []entity.NetBalance
	// Conversions is keyed by expense ID for every included expense.
	Conversions map[uuid.UUID]entity.ConvertedAmount
	// DisplayAmounts holds the amount each included expense contributed, in display currency.
	DisplayAmounts map[uuid.UUID]decimal.Decimal
	Paid           map[uuid.UUID]decimal.Decimal
	Owed           map[uuid.UUID]decimal.Decimal
	Issues         []entity.ComputationIssue
	// Included lists the group expenses that passed validation, in input order.
	Included []*entity.Expense

	rates rateBook
}

// Aggregator nets expenses into per-member balances in a single currency.
type Aggregator struct {
	resolver    *Resolver
	concurrency int
}

// NewAggregator creates an Aggregator. concurrency bounds parallel rate lookups.
func NewAggregator(resolver *Resolver, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultLookupConcurrency
	}
	return &Aggregator{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Aggregate computes net balances for input.Members from input.Expenses.
// Invalid expenses are excluded and reported, conversion failures fall back to
// the original amount, and nothing here returns an error.
func (a *Aggregator) Aggregate(ctx context.Context, input AggregateInput) *AggregateResult {
	collector := &issueCollector{}
	display := input.DisplayCurrency

	order := make([]uuid.UUID, 0, len(input.Members))
	members := make(map[uuid.UUID]struct{}, len(input.Members))
	for _, m := range input.Members {
		if _, seen := members[m.UserID]; seen {
			continue
		}
		members[m.UserID] = struct{}{}
		order = append(order, m.UserID)
	}

	included := make([]*entity.Expense, 0, len(input.Expenses))
	entries := make([]entry, 0, len(input.Expenses))
	for _, exp := range input.Expenses {
		if exp == nil || !exp.IsGroupExpense() {
			continue
		}
		code, ok := a.validate(exp, input.GroupID, members, collector)
		if !ok {
			continue
		}

		if exp.SplitTotal().Sub(exp.Amount).Abs().GreaterThan(code.Epsilon()) {
			collector.inconsistent(&exp.ID, domainerror.ErrCodeSplitSumMismatch,
				"split shares add up to %s but amount is %s %s",
				exp.SplitTotal().String(), exp.Amount.String(), code.String())
		}
		included = append(included, exp)
		entries = append(entries, entry{expense: exp, currency: code})
	}

	rates := make(rateBook)
	quotes := a.quoteAll(ctx, entries, display, input.Mode, rates)

	result := &AggregateResult{
		Conversions:    make(map[uuid.UUID]entity.ConvertedAmount, len(included)),
		DisplayAmounts: make(map[uuid.UUID]decimal.Decimal, len(included)),
		Paid:           make(map[uuid.UUID]decimal.Decimal, len(order)),
		Owed:           make(map[uuid.UUID]decimal.Decimal, len(order)),
		Included:       included,
		rates:          rates,
	}

	for i, e := range entries {
		exp := e.expense
		conv := quotes[i].Apply(exp.Amount)
		result.Conversions[exp.ID] = conv

		displayAmount := exp.Amount
		if conv.OK() {
			displayAmount = conv.Converted.Amount
		} else {
			collector.unconverted(exp.ID, e.currency.String(), display.String(), quotes[i].Err)
		}
		result.DisplayAmounts[exp.ID] = displayAmount

		result.Paid[exp.PayerID] = result.Paid[exp.PayerID].Add(displayAmount)
		for _, split := range exp.Splits {
			// share * (displayAmount / amount), multiplied first to keep precision
			share := split.ShareAmount.Mul(displayAmount).Div(exp.Amount)
			result.Owed[split.UserID] = result.Owed[split.UserID].Add(share)
		}
	}

	sum := decimal.Zero
	result.NetBalances = make([]entity.NetBalance, 0, len(order))
	for _, userID := range order {
		net := result.Paid[userID].Sub(result.Owed[userID])
		sum = sum.Add(net)
		result.NetBalances = append(result.NetBalances, entity.NetBalance{UserID: userID, NetBalance: net})
	}

	if sum.Abs().GreaterThan(display.Epsilon()) {
		collector.inconsistent(nil, domainerror.ErrCodeNonZeroSum,
			"net balances sum to %s %s instead of zero", sum.String(), display.String())
	}

	result.Issues = collector.issues
	return result
}

// validate reports whether exp can take part in the balance, recording an issue when it cannot.
func (a *Aggregator) validate(exp *entity.Expense, groupID uuid.UUID, members map[uuid.UUID]struct{}, collector *issueCollector) (valueobject.CurrencyCode, bool) {
	if groupID != uuid.Nil && *exp.GroupID != groupID {
		collector.invalid(exp.ID, domainerror.ErrCodeExpenseOutsideGroup, "expense belongs to group %s", exp.GroupID.String())
		return "", false
	}
	code, ok := valueobject.ParseCurrency(exp.Currency)
	if !ok {
		collector.invalid(exp.ID, domainerror.ErrCodeInvalidCurrency, "invalid currency code %q", exp.Currency)
		return "", false
	}
	if !exp.Amount.IsPositive() {
		collector.invalid(exp.ID, domainerror.ErrCodeNonPositiveAmount, "amount must be positive, got %s", exp.Amount.String())
		return "", false
	}
	if _, ok := members[exp.PayerID]; !ok {
		collector.invalid(exp.ID, domainerror.ErrCodePayerNotMember, "payer %s is not a group member", exp.PayerID.String())
		return "", false
	}
	if len(exp.Splits) == 0 {
		collector.invalid(exp.ID, domainerror.ErrCodeMissingSplits, "expense has no splits")
		return "", false
	}
	for _, split := range exp.Splits {
		if _, ok := members[split.UserID]; !ok {
			collector.invalid(exp.ID, domainerror.ErrCodeSplitUserNotMember, "split user %s is not a group member", split.UserID.String())
			return "", false
		}
		if split.ShareAmount.IsNegative() {
			collector.invalid(exp.ID, domainerror.ErrCodeNegativeShare, "share for %s is negative", split.UserID.String())
			return "", false
		}
	}
	return code, true
}

type entry struct {
	expense  *entity.Expense
	currency valueobject.CurrencyCode
}

type rateKey struct {
	currency string
	date     string
}

// rateBook holds the quotes fetched during one computation, so later
// lookups for the same (currency, date) pair reuse them.
type rateBook map[rateKey]RateQuote

// quoteAll returns one quote per entry, looking up each distinct
// (currency, date) pair missing from book once and adding it to book.
// Lookups run concurrently and are all joined before any quote is used.
func (a *Aggregator) quoteAll(ctx context.Context, entries []entry, display valueobject.CurrencyCode, mode entity.ConversionMode, book rateBook) []RateQuote {
	keys := make([]rateKey, 0)
	dates := make(map[rateKey]time.Time)
	for _, e := range entries {
		if e.currency == display {
			continue
		}
		key := keyFor(e, mode)
		if _, known := book[key]; known {
			continue
		}
		if _, seen := dates[key]; seen {
			continue
		}
		dates[key] = e.expense.Date
		keys = append(keys, key)
	}

	fetched := make([]RateQuote, len(keys))
	if len(keys) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.concurrency)
		for i, key := range keys {
			i, key := i, key
			g.Go(func() error {
				fetched[i] = a.resolver.LookupRate(gctx, key.currency, display.String(), dates[key], mode)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, key := range keys {
		book[key] = fetched[i]
	}

	quotes := make([]RateQuote, len(entries))
	for i, e := range entries {
		if e.currency == display {
			quotes[i] = a.resolver.LookupRate(ctx, e.currency.String(), display.String(), e.expense.Date, mode)
			continue
		}
		quotes[i] = book[keyFor(e, mode)]
	}
	return quotes
}

func keyFor(e entry, mode entity.ConversionMode) rateKey {
	if mode == entity.ConversionModeSmart {
		return rateKey{currency: e.currency.String(), date: e.expense.Date.UTC().Format(dateKeyLayout)}
	}
	return rateKey{currency: e.currency.String(), date: latestDateKey}
}
