package dto

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/internal/domain/entity"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "33.34", FormatAmount(decimal.RequireFromString("33.335"), "USD"))
	assert.Equal(t, "50.00", FormatAmount(decimal.NewFromInt(50), "EUR"))
	assert.Equal(t, "334", FormatAmount(decimal.RequireFromString("333.5"), "JPY"))
}

func TestRegisterValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	type sample struct {
		Currency string `validate:"currency"`
		Date     string `validate:"omitempty,isodate"`
	}

	assert.NoError(t, v.Struct(sample{Currency: "EUR", Date: "2024-03-01"}))
	assert.NoError(t, v.Struct(sample{Currency: "eur"}))
	assert.Error(t, v.Struct(sample{Currency: "EURO"}))
	assert.Error(t, v.Struct(sample{Currency: "USD", Date: "01/03/2024"}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestToBalanceSummaryResponse(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	expenseID := uuid.New()
	summary := &entity.BalanceSummary{
		GroupID:         uuid.New(),
		GroupName:       "Trip",
		DisplayCurrency: "USD",
		ConversionMode:  entity.ConversionModeSimple,
		TotalExpenses:   decimal.RequireFromString("110"),
		OriginalTotals:  []entity.Money{{Amount: decimal.NewFromInt(1000), Currency: "JPY"}},
		CategoryBreakdown: []entity.CategoryTotal{
			{CategoryKey: entity.UncategorizedKey, CategoryName: "Uncategorized", Amount: decimal.NewFromInt(110), Percentage: 100, ExpenseCount: 1},
		},
		UserBalances: []entity.UserBalance{
			{UserID: alice, Name: "Alice", NetBalance: decimal.RequireFromString("55")},
			{UserID: bob, Name: "Bob", NetBalance: decimal.RequireFromString("-55")},
		},
		SimplifiedDebts: []entity.SimplifiedDebt{
			{FromUserID: bob, FromName: "Bob", ToUserID: alice, ToName: "Alice", Amount: decimal.NewFromInt(55)},
		},
		ConversionStats: entity.ConversionStats{ConvertedCount: 1, TotalCount: 1},
		Issues: []entity.ComputationIssue{
			{Kind: entity.IssueConversionUnavailable, Code: "BAL-040001", ExpenseID: &expenseID, Message: "no rate"},
		},
	}

	response := ToBalanceSummaryResponse(summary)

	assert.Equal(t, "110.00", response.TotalExpenses)
	assert.Equal(t, "1000", response.OriginalTotals[0].Amount)
	assert.Nil(t, response.CategoryBreakdown[0].CategoryID)
	assert.Equal(t, "-55.00", response.UserBalances[1].NetBalance)
	assert.Equal(t, bob.String(), response.SimplifiedDebts[0].FromUserID)
	assert.Equal(t, "55.00", response.SimplifiedDebts[0].Amount)
	require.NotNil(t, response.Issues[0].ExpenseID)
	assert.Equal(t, expenseID.String(), *response.Issues[0].ExpenseID)
	assert.Equal(t, "simple", response.ConversionMode)
	assert.NotNil(t, response.Conversions)
}

func TestToBalanceSummaryResponse_Conversions(t *testing.T) {
	converted, failed := uuid.New(), uuid.New()
	rateDate := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	summary := &entity.BalanceSummary{
		DisplayCurrency: "USD",
		ConversionMode:  entity.ConversionModeSmart,
		Conversions: []entity.ExpenseConversion{
			{ExpenseID: converted, ConvertedAmount: entity.ConvertedAmount{
				Original:   entity.Money{Amount: decimal.NewFromInt(100), Currency: "EUR"},
				Converted:  &entity.Money{Amount: decimal.RequireFromString("108.5"), Currency: "USD"},
				RateDate:   &rateDate,
				RateSource: entity.RateSourceHistorical,
			}},
			{ExpenseID: failed, ConvertedAmount: entity.ConvertedAmount{
				Original:   entity.Money{Amount: decimal.NewFromInt(5000), Currency: "JPY"},
				RateSource: entity.RateSourceHistorical,
			}},
		},
	}

	response := ToBalanceSummaryResponse(summary)

	require.Len(t, response.Conversions, 2)
	first := response.Conversions[0]
	assert.Equal(t, converted.String(), first.ExpenseID)
	assert.Equal(t, MoneyResponse{Amount: "100.00", Currency: "EUR"}, first.Original)
	require.NotNil(t, first.Converted)
	assert.Equal(t, MoneyResponse{Amount: "108.50", Currency: "USD"}, *first.Converted)
	assert.Equal(t, "historical", first.RateSource)
	require.NotNil(t, first.RateDate)
	assert.Equal(t, "2024-02-29", *first.RateDate)

	second := response.Conversions[1]
	assert.Equal(t, "5000", second.Original.Amount)
	assert.Nil(t, second.Converted)
	assert.Nil(t, second.RateDate)
}

func TestToExpenseResponse(t *testing.T) {
	payer := uuid.New()
	e := entity.NewPersonalExpense(payer, decimal.RequireFromString("12.5"), "EUR", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "lunch", nil)

	response := ToExpenseResponse(e)

	assert.Nil(t, response.GroupID)
	assert.Equal(t, "12.50", response.Amount)
	assert.Equal(t, "2024-05-01", response.Date)
	require.Len(t, response.Splits, 1)
	assert.Equal(t, payer.String(), response.Splits[0].UserID)
	assert.True(t, response.IsPersonal)
}
