package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionMode controls how foreign-currency expenses are converted.
type ConversionMode string

const (
	// ConversionModeOff shows totals in their original currencies.
	// Balances are still netted internally using the latest rate.
	ConversionModeOff ConversionMode = "off"
	// ConversionModeSimple converts everything with the current rate.
	ConversionModeSimple ConversionMode = "simple"
	// ConversionModeSmart converts each expense with the rate of its own date.
	ConversionModeSmart ConversionMode = "smart"
)

// IsValid checks if the conversion mode is one of the known values.
func (m ConversionMode) IsValid() bool {
	switch m {
	case ConversionModeOff, ConversionModeSimple, ConversionModeSmart:
		return true
	}
	return false
}

// RateSource tells which kind of rate produced a converted amount.
type RateSource string

const (
	RateSourceIdentity   RateSource = "identity"
	RateSourceCurrent    RateSource = "current"
	RateSourceHistorical RateSource = "historical"
)

// Money is an amount tagged with its ISO 4217 currency code.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// ConvertedAmount is the outcome of converting one amount.
// A nil Converted means no rate was available.
type ConvertedAmount struct {
	Original   Money
	Converted  *Money
	RateDate   *time.Time
	RateSource RateSource
}

// OK reports whether the conversion produced an amount.
func (c ConvertedAmount) OK() bool {
	return c.Converted != nil
}

// NetBalance is a member's signed position: positive is owed, negative owes.
type NetBalance struct {
	UserID     uuid.UUID
	NetBalance decimal.Decimal
}

// Debt is a single settlement transfer from a debtor to a creditor.
type Debt struct {
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Amount     decimal.Decimal
}

// IssueKind classifies a problem found while computing balances.
type IssueKind string

const (
	IssueDataInconsistency     IssueKind = "data_inconsistency"
	IssueConversionUnavailable IssueKind = "conversion_unavailable"
	IssueInvalidInput          IssueKind = "invalid_input"
)

// ComputationIssue is a non-fatal problem collected during a balance computation.
type ComputationIssue struct {
	Kind      IssueKind
	Code      string
	ExpenseID *uuid.UUID
	Message   string
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	CategoryID   *uuid.UUID
	CategoryKey  string
	CategoryName string
	Amount       decimal.Decimal
	Percentage   float64
	ExpenseCount int
}

// PersonalVsGroup compares the caller's personal spending with the group total.
type PersonalVsGroup struct {
	PersonalTotal      decimal.Decimal
	GroupTotal         decimal.Decimal
	PersonalPercentage float64
	GroupPercentage    float64
}

// UserBalance is a member's net position joined with member details.
type UserBalance struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	IsShadow   bool
	TotalPaid  decimal.Decimal
	TotalShare decimal.Decimal
	NetBalance decimal.Decimal
}

// SimplifiedDebt is a settlement transfer with member names attached.
type SimplifiedDebt struct {
	FromUserID uuid.UUID
	FromName   string
	ToUserID   uuid.UUID
	ToName     string
	Amount     decimal.Decimal
}

// ExpenseConversion records which rate was applied to one included expense.
type ExpenseConversion struct {
	ExpenseID uuid.UUID
	ConvertedAmount
}

// ConversionStats counts how many included expenses were converted.
type ConversionStats struct {
	ConvertedCount int
	TotalCount     int
}

// BalanceSummary is the complete computed balance view for a group.
type BalanceSummary struct {
	GroupID           uuid.UUID
	GroupName         string
	DisplayCurrency   string
	ConversionMode    ConversionMode
	TotalExpenses     decimal.Decimal
	OriginalTotals    []Money
	CategoryBreakdown []CategoryTotal
	PersonalVsGroup   PersonalVsGroup
	UserBalances      []UserBalance
	SimplifiedDebts   []SimplifiedDebt
	ConversionStats   ConversionStats
	Conversions       []ExpenseConversion
	Issues            []ComputationIssue
	GeneratedAt       time.Time
}
