package balance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

func aggregate(t *testing.T, provider *fakeRateProvider, g *testGroup, mode entity.ConversionMode, expenses ...*entity.Expense) *AggregateResult {
	t.Helper()
	agg := NewAggregator(NewResolver(provider, time.Second), 2)
	return agg.Aggregate(context.Background(), AggregateInput{
		GroupID:         g.group.ID,
		Expenses:        expenses,
		Members:         g.members,
		DisplayCurrency: valueobject.CurrencyCode("USD"),
		Mode:            mode,
	})
}

func netOf(result *AggregateResult, userID uuid.UUID) decimal.Decimal {
	for _, nb := range result.NetBalances {
		if nb.UserID == userID {
			return nb.NetBalance
		}
	}
	return decimal.NewFromInt(-999999)
}

func issueCodes(issues []entity.ComputationIssue) []string {
	codes := make([]string, 0, len(issues))
	for _, i := range issues {
		codes = append(codes, i.Code)
	}
	return codes
}

func TestAggregator_SingleExpenseTwoMembers(t *testing.T) {
	g := newTestGroup("A", "B")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple,
		g.expense("A", "100", "USD", "A", "50", "B", "50"))

	assertDecimal(t, "50", netOf(result, g.id("A")))
	assertDecimal(t, "-50", netOf(result, g.id("B")))
	assert.Empty(t, result.Issues)
	assertDecimal(t, "100", result.Paid[g.id("A")])
	assertDecimal(t, "50", result.Owed[g.id("B")])
}

func TestAggregator_TwoExpensesThreeMembers(t *testing.T) {
	g := newTestGroup("A", "B", "C")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple,
		g.expense("A", "90", "USD", "A", "30", "B", "30", "C", "30"),
		g.expense("B", "60", "USD", "A", "20", "B", "20", "C", "20"),
	)

	assertDecimal(t, "40", netOf(result, g.id("A")))
	assertDecimal(t, "10", netOf(result, g.id("B")))
	assertDecimal(t, "-50", netOf(result, g.id("C")))
	assert.Len(t, result.Included, 2)
}

func TestAggregator_ConvertsForeignCurrency(t *testing.T) {
	g := newTestGroup("A", "B")
	provider := newFakeRateProvider().withLatest("EUR", "USD", "1.1")
	exp := g.expense("A", "100", "EUR", "A", "50", "B", "50")

	result := aggregate(t, provider, g, entity.ConversionModeSimple, exp)

	assertDecimal(t, "110", result.DisplayAmounts[exp.ID])
	assertDecimal(t, "55", netOf(result, g.id("A")))
	assertDecimal(t, "-55", netOf(result, g.id("B")))
	conv := result.Conversions[exp.ID]
	require.True(t, conv.OK())
	assert.Equal(t, entity.RateSourceCurrent, conv.RateSource)
}

func TestAggregator_ConversionFailureFallsBackToOriginalAmount(t *testing.T) {
	g := newTestGroup("A", "B", "C")
	provider := newFakeRateProvider().
		withLatest("EUR", "USD", "1.1").
		withFailure("GBP", "USD")

	usd := g.expense("A", "90", "USD", "A", "30", "B", "30", "C", "30")
	eur := g.expense("B", "100", "EUR", "A", "50", "C", "50")
	gbp := g.expense("C", "60", "GBP", "A", "20", "B", "20", "C", "20")

	result := aggregate(t, provider, g, entity.ConversionModeSimple, usd, eur, gbp)

	assert.False(t, result.Conversions[gbp.ID].OK())
	assertDecimal(t, "60", result.DisplayAmounts[gbp.ID])
	assertDecimal(t, "-15", netOf(result, g.id("A")))
	assertDecimal(t, "60", netOf(result, g.id("B")))
	assertDecimal(t, "-45", netOf(result, g.id("C")))

	require.Len(t, result.Issues, 1)
	assert.Equal(t, entity.IssueConversionUnavailable, result.Issues[0].Kind)
	assert.Equal(t, string(domainerror.ErrCodeConversionUnavailable), result.Issues[0].Code)
	require.NotNil(t, result.Issues[0].ExpenseID)
	assert.Equal(t, gbp.ID, *result.Issues[0].ExpenseID)
}

func TestAggregator_ExcludesInvalidExpenses(t *testing.T) {
	g := newTestGroup("A", "B")
	outsider := uuid.New()

	payerOutside := g.expense("A", "10", "USD", "A", "5", "B", "5")
	payerOutside.PayerID = outsider

	splitOutside := g.expense("A", "10", "USD", "A", "5", "B", "5")
	splitOutside.Splits[1].UserID = outsider

	zeroAmount := g.expense("A", "0", "USD", "A", "0", "B", "0")
	negativeShare := g.expense("A", "10", "USD", "A", "15", "B", "-5")
	badCurrency := g.expense("A", "10", "ZZZ", "A", "5", "B", "5")
	noSplits := g.expense("A", "10", "USD")

	otherGroup := g.expense("A", "10", "USD", "A", "5", "B", "5")
	otherID := uuid.New()
	otherGroup.GroupID = &otherID

	valid := g.expense("A", "20", "USD", "A", "10", "B", "10")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple,
		payerOutside, splitOutside, zeroAmount, negativeShare, badCurrency, noSplits, otherGroup, valid)

	require.Len(t, result.Included, 1)
	assert.Equal(t, valid.ID, result.Included[0].ID)
	assertDecimal(t, "10", netOf(result, g.id("A")))

	assert.Equal(t, []string{
		string(domainerror.ErrCodePayerNotMember),
		string(domainerror.ErrCodeSplitUserNotMember),
		string(domainerror.ErrCodeNonPositiveAmount),
		string(domainerror.ErrCodeNegativeShare),
		string(domainerror.ErrCodeInvalidCurrency),
		string(domainerror.ErrCodeMissingSplits),
		string(domainerror.ErrCodeExpenseOutsideGroup),
	}, issueCodes(result.Issues))
	for _, issue := range result.Issues {
		assert.Equal(t, entity.IssueInvalidInput, issue.Kind)
	}
}

func TestAggregator_SkipsPersonalExpenses(t *testing.T) {
	g := newTestGroup("A", "B")
	personal := entity.NewPersonalExpense(g.id("A"), dec("500"), "USD", time.Now(), "rent", nil)

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple, personal)

	assert.Empty(t, result.Included)
	assert.Empty(t, result.Issues)
	assertDecimal(t, "0", netOf(result, g.id("A")))
}

func TestAggregator_SplitSumMismatchIsReportedButUsed(t *testing.T) {
	g := newTestGroup("A", "B")
	exp := g.expense("A", "100", "USD", "A", "40", "B", "40")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple, exp)

	require.Len(t, result.Included, 1)
	assertDecimal(t, "60", netOf(result, g.id("A")))
	assertDecimal(t, "-40", netOf(result, g.id("B")))
	assert.Equal(t, []string{
		string(domainerror.ErrCodeSplitSumMismatch),
		string(domainerror.ErrCodeNonZeroSum),
	}, issueCodes(result.Issues))
	assert.Equal(t, entity.IssueDataInconsistency, result.Issues[0].Kind)
}

func TestAggregator_SplitSumWithinEpsilonIsAccepted(t *testing.T) {
	g := newTestGroup("A", "B", "C")
	exp := g.expense("A", "100", "USD", "A", "33.33", "B", "33.33", "C", "33.335")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple, exp)

	assert.Empty(t, result.Issues)
}

func TestAggregator_EveryMemberAppearsInOrder(t *testing.T) {
	g := newTestGroup("A", "B", "C", "D")

	result := aggregate(t, newFakeRateProvider(), g, entity.ConversionModeSimple,
		g.expense("B", "10", "USD", "B", "5", "C", "5"))

	require.Len(t, result.NetBalances, 4)
	for i, name := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, g.id(name), result.NetBalances[i].UserID)
	}
	assertDecimal(t, "0", netOf(result, g.id("A")))
	assertDecimal(t, "0", netOf(result, g.id("D")))
}

func TestAggregator_LooksUpEachPairOnce(t *testing.T) {
	g := newTestGroup("A", "B")
	provider := newFakeRateProvider().
		withLatest("EUR", "USD", "1.1").
		withLatest("GBP", "USD", "1.25")

	result := aggregate(t, provider, g, entity.ConversionModeSimple,
		g.expense("A", "10", "EUR", "A", "5", "B", "5"),
		g.expense("B", "20", "EUR", "A", "10", "B", "10"),
		g.expense("A", "8", "GBP", "A", "4", "B", "4"),
		g.expense("B", "30", "USD", "A", "15", "B", "15"),
	)

	assert.Empty(t, result.Issues)
	assert.Equal(t, 2, provider.callCount())
}

func TestAggregator_SmartModeLooksUpPerDate(t *testing.T) {
	g := newTestGroup("A", "B")
	provider := newFakeRateProvider().
		withHistorical("EUR", "USD", "2024-01-01", "1.10").
		withHistorical("EUR", "USD", "2024-02-01", "1.20")

	jan := g.expense("A", "100", "EUR", "A", "50", "B", "50")
	jan.Date = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := g.expense("A", "100", "EUR", "A", "50", "B", "50")
	feb.Date = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	febAgain := g.expense("B", "10", "EUR", "A", "5", "B", "5")
	febAgain.Date = time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	result := aggregate(t, provider, g, entity.ConversionModeSmart, jan, feb, febAgain)

	assert.Equal(t, 2, provider.callCount())
	assertDecimal(t, "110", result.DisplayAmounts[jan.ID])
	assertDecimal(t, "120", result.DisplayAmounts[feb.ID])
	assertDecimal(t, "12", result.DisplayAmounts[febAgain.ID])
	assert.Equal(t, entity.RateSourceHistorical, result.Conversions[jan.ID].RateSource)
}

func TestAggregator_NetBalancesSumToZero(t *testing.T) {
	g := newTestGroup("A", "B", "C", "D", "E")
	provider := newFakeRateProvider().
		withLatest("EUR", "USD", "1.0873").
		withLatest("JPY", "USD", "0.0067")

	result := aggregate(t, provider, g, entity.ConversionModeSimple,
		g.expense("A", "100", "USD", "A", "33.33", "B", "33.33", "C", "33.34"),
		g.expense("B", "77.77", "EUR", "C", "25.92", "D", "25.92", "E", "25.93"),
		g.expense("C", "12345", "JPY", "A", "2469", "B", "2469", "C", "2469", "D", "2469", "E", "2469"),
		g.expense("E", "0.03", "USD", "A", "0.01", "B", "0.01", "E", "0.01"),
	)

	sum := decimal.Zero
	for _, nb := range result.NetBalances {
		sum = sum.Add(nb.NetBalance)
	}
	assert.True(t, sum.Abs().LessThanOrEqual(valueobject.CurrencyCode("USD").Epsilon()), "sum was %s", sum.String())
	assert.Empty(t, result.Issues)
}
