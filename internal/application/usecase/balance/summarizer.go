package balance

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

// SummaryInput holds the already-loaded data a balance summary is built from.
type SummaryInput struct {
	Group    *entity.Group
	Expenses []*entity.Expense
	Members  []*entity.GroupMember
	// PersonalExpenses are the caller's own expenses, compared against the group total.
	PersonalExpenses []*entity.Expense
	// CategoryNames maps category IDs to display names for the breakdown.
	CategoryNames   map[uuid.UUID]string
	DisplayCurrency string
	Mode            entity.ConversionMode
	CurrentUserID   uuid.UUID
	// SelfFirst moves the current user to the top of UserBalances.
	SelfFirst bool
}

// Summarizer assembles the full balance view of a group.
// It reads only what it is given and never writes anywhere.
type Summarizer struct {
	aggregator *Aggregator
	now        func() time.Time
}

// NewSummarizer creates a Summarizer on top of an Aggregator.
func NewSummarizer(aggregator *Aggregator) *Summarizer {
	return &Summarizer{
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Summarize computes balances, debts and totals for a group.
// Only an invalid display currency or conversion mode produces an error;
// every other problem is reported in the summary's Issues.
func (s *Summarizer) Summarize(ctx context.Context, input SummaryInput) (*entity.BalanceSummary, error) {
	display, ok := valueobject.ParseCurrency(input.DisplayCurrency)
	if !ok {
		return nil, domainerror.NewBalanceError(
			domainerror.ErrCodeInvalidDisplayCurrency,
			fmt.Sprintf("display currency %q is not a valid ISO 4217 code", input.DisplayCurrency),
			domainerror.ErrInvalidDisplayCurrency,
		)
	}
	if !input.Mode.IsValid() {
		return nil, domainerror.NewBalanceError(
			domainerror.ErrCodeInvalidConversionMode,
			"conversion mode must be 'off', 'simple' or 'smart'",
			domainerror.ErrInvalidConversionMode,
		)
	}

	var groupID uuid.UUID
	summary := &entity.BalanceSummary{
		DisplayCurrency: display.String(),
		ConversionMode:  input.Mode,
	}
	if input.Group != nil {
		groupID = input.Group.ID
		summary.GroupID = input.Group.ID
		summary.GroupName = input.Group.Name
	}

	agg := s.aggregator.Aggregate(ctx, AggregateInput{
		GroupID:         groupID,
		Expenses:        input.Expenses,
		Members:         input.Members,
		DisplayCurrency: display,
		Mode:            input.Mode,
	})
	collector := &issueCollector{issues: agg.Issues}

	epsilon := display.Epsilon()
	debts := Simplify(agg.NetBalances, epsilon)
	if !collector.has(domainerror.ErrCodeNonZeroSum) {
		for _, b := range ApplyDebts(agg.NetBalances, debts) {
			if b.NetBalance.Abs().GreaterThan(epsilon) {
				collector.inconsistent(nil, domainerror.ErrCodeNonZeroSum,
					"settlement leaves %s %s with user %s", b.NetBalance.String(), display.String(), b.UserID.String())
				break
			}
		}
	}

	total := decimal.Zero
	for _, exp := range agg.Included {
		total = total.Add(agg.DisplayAmounts[exp.ID])
	}

	summary.TotalExpenses = display.Round(total)
	summary.OriginalTotals = originalTotals(agg.Included)
	summary.CategoryBreakdown = categoryBreakdown(agg, input.CategoryNames, total, display)
	summary.PersonalVsGroup = s.personalVsGroup(ctx, input, display, total, agg.rates, collector)
	summary.UserBalances = userBalances(agg, input, display)
	summary.SimplifiedDebts = simplifiedDebts(debts, input.Members, display)
	summary.ConversionStats = conversionStats(agg)
	summary.Conversions = expenseConversions(agg, display)
	summary.Issues = collector.issues
	summary.GeneratedAt = s.now()

	return summary, nil
}

// personalVsGroup converts the caller's personal expenses with the quotes
// already fetched for the group where the pair matches.
func (s *Summarizer) personalVsGroup(ctx context.Context, input SummaryInput, display valueobject.CurrencyCode, groupTotal decimal.Decimal, rates rateBook, collector *issueCollector) entity.PersonalVsGroup {
	personal := make([]*entity.Expense, 0, len(input.PersonalExpenses))
	for _, exp := range input.PersonalExpenses {
		if exp == nil || !exp.IsPersonal {
			continue
		}
		if input.CurrentUserID != uuid.Nil && exp.PayerID != input.CurrentUserID {
			continue
		}
		if _, ok := valueobject.ParseCurrency(exp.Currency); !ok {
			collector.invalid(exp.ID, domainerror.ErrCodeInvalidCurrency, "invalid currency code %q", exp.Currency)
			continue
		}
		if !exp.Amount.IsPositive() {
			collector.invalid(exp.ID, domainerror.ErrCodeNonPositiveAmount, "amount must be positive, got %s", exp.Amount.String())
			continue
		}
		personal = append(personal, exp)
	}

	entries := make([]entry, len(personal))
	for i, exp := range personal {
		code, _ := valueobject.ParseCurrency(exp.Currency)
		entries[i] = entry{expense: exp, currency: code}
	}
	if rates == nil {
		rates = make(rateBook)
	}
	quotes := s.aggregator.quoteAll(ctx, entries, display, input.Mode, rates)

	personalTotal := decimal.Zero
	for i, e := range entries {
		conv := quotes[i].Apply(e.expense.Amount)
		if conv.OK() {
			personalTotal = personalTotal.Add(conv.Converted.Amount)
			continue
		}
		collector.unconverted(e.expense.ID, e.currency.String(), display.String(), quotes[i].Err)
		personalTotal = personalTotal.Add(e.expense.Amount)
	}

	result := entity.PersonalVsGroup{
		PersonalTotal: display.Round(personalTotal),
		GroupTotal:    display.Round(groupTotal),
	}
	combined := personalTotal.Add(groupTotal)
	if combined.IsPositive() {
		result.PersonalPercentage = percentage(personalTotal, combined)
		result.GroupPercentage = percentage(groupTotal, combined)
	}
	return result
}

func categoryBreakdown(agg *AggregateResult, names map[uuid.UUID]string, total decimal.Decimal, display valueobject.CurrencyCode) []entity.CategoryTotal {
	byKey := make(map[string]*entity.CategoryTotal)
	for _, exp := range agg.Included {
		key := entity.CategoryKey(exp.CategoryID)

		row, ok := byKey[key]
		if !ok {
			row = &entity.CategoryTotal{CategoryKey: key, CategoryName: entity.UncategorizedName}
			if exp.CategoryID != nil {
				id := *exp.CategoryID
				row.CategoryID = &id
				if name, found := names[id]; found {
					row.CategoryName = name
				} else {
					row.CategoryName = entity.UnknownCategoryName
				}
			}
			byKey[key] = row
		}
		row.Amount = row.Amount.Add(agg.DisplayAmounts[exp.ID])
		row.ExpenseCount++
	}

	rows := make([]entity.CategoryTotal, 0, len(byKey))
	for _, row := range byKey {
		if total.IsPositive() {
			row.Percentage = percentage(row.Amount, total)
		}
		row.Amount = display.Round(row.Amount)
		rows = append(rows, *row)
	}

	slices.SortFunc(rows, func(a, b entity.CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.CategoryKey, b.CategoryKey)
	})
	return rows
}

func originalTotals(expenses []*entity.Expense) []entity.Money {
	sums := make(map[string]decimal.Decimal)
	for _, exp := range expenses {
		code, _ := valueobject.ParseCurrency(exp.Currency)
		sums[code.String()] = sums[code.String()].Add(exp.Amount)
	}

	totals := make([]entity.Money, 0, len(sums))
	for currency, amount := range sums {
		totals = append(totals, entity.Money{Amount: amount, Currency: currency})
	}
	slices.SortFunc(totals, func(a, b entity.Money) int {
		return strings.Compare(a.Currency, b.Currency)
	})
	return totals
}

func userBalances(agg *AggregateResult, input SummaryInput, display valueobject.CurrencyCode) []entity.UserBalance {
	info := make(map[uuid.UUID]*entity.GroupMember, len(input.Members))
	for _, m := range input.Members {
		if _, seen := info[m.UserID]; !seen {
			info[m.UserID] = m
		}
	}

	balances := make([]entity.UserBalance, 0, len(agg.NetBalances))
	for _, nb := range agg.NetBalances {
		ub := entity.UserBalance{
			UserID:     nb.UserID,
			TotalPaid:  display.Round(agg.Paid[nb.UserID]),
			TotalShare: display.Round(agg.Owed[nb.UserID]),
			NetBalance: display.Round(nb.NetBalance),
		}
		if m := info[nb.UserID]; m != nil {
			ub.Name = m.UserName
			ub.Email = m.UserEmail
			ub.IsShadow = m.IsShadow
		}
		balances = append(balances, ub)
	}

	if input.SelfFirst && input.CurrentUserID != uuid.Nil {
		slices.SortStableFunc(balances, func(a, b entity.UserBalance) int {
			aSelf := a.UserID == input.CurrentUserID
			bSelf := b.UserID == input.CurrentUserID
			switch {
			case aSelf && !bSelf:
				return -1
			case bSelf && !aSelf:
				return 1
			}
			return 0
		})
	}
	return balances
}

func simplifiedDebts(debts []entity.Debt, members []*entity.GroupMember, display valueobject.CurrencyCode) []entity.SimplifiedDebt {
	byUser := entity.MemberSet(members)
	name := func(id uuid.UUID) string {
		if m, ok := byUser[id]; ok {
			return m.UserName
		}
		return ""
	}

	out := make([]entity.SimplifiedDebt, 0, len(debts))
	for _, d := range debts {
		out = append(out, entity.SimplifiedDebt{
			FromUserID: d.FromUserID,
			FromName:   name(d.FromUserID),
			ToUserID:   d.ToUserID,
			ToName:     name(d.ToUserID),
			Amount:     display.Round(d.Amount),
		})
	}
	return out
}

func conversionStats(agg *AggregateResult) entity.ConversionStats {
	stats := entity.ConversionStats{TotalCount: len(agg.Included)}
	for _, exp := range agg.Included {
		if agg.Conversions[exp.ID].OK() {
			stats.ConvertedCount++
		}
	}
	return stats
}

// expenseConversions lists the conversion of every included expense in input order.
func expenseConversions(agg *AggregateResult, display valueobject.CurrencyCode) []entity.ExpenseConversion {
	out := make([]entity.ExpenseConversion, 0, len(agg.Included))
	for _, exp := range agg.Included {
		conv := agg.Conversions[exp.ID]
		if conv.Converted != nil {
			rounded := entity.Money{Amount: display.Round(conv.Converted.Amount), Currency: conv.Converted.Currency}
			conv.Converted = &rounded
		}
		out = append(out, entity.ExpenseConversion{ExpenseID: exp.ID, ConvertedAmount: conv})
	}
	return out
}

// percentage returns part as a percentage of whole, rounded to two decimals.
func percentage(part, whole decimal.Decimal) float64 {
	pct, _ := part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2).Float64()
	return pct
}
