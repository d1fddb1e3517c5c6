package dto

import (
	"time"

	"github.com/groupledger/backend/internal/domain/entity"
)

// BalanceQuery holds the optional query parameters of a balance request.
// Empty values fall back to the caller's saved preferences.
type BalanceQuery struct {
	Currency        string `form:"currency"`
	Mode            string `form:"mode"`
	SelfFirst       bool   `form:"self_first"`
	IncludePersonal bool   `form:"include_personal"`
}

// MoneyResponse is an amount in an explicit currency.
type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// CategoryTotalResponse is one row of the category breakdown.
type CategoryTotalResponse struct {
	CategoryID   *string `json:"category_id"`
	CategoryKey  string  `json:"category_key"`
	CategoryName string  `json:"category_name"`
	Amount       string  `json:"amount"`
	Percentage   float64 `json:"percentage"`
	ExpenseCount int     `json:"expense_count"`
}

// PersonalVsGroupResponse compares personal and group spending.
type PersonalVsGroupResponse struct {
	PersonalTotal      string  `json:"personal_total"`
	GroupTotal         string  `json:"group_total"`
	PersonalPercentage float64 `json:"personal_percentage"`
	GroupPercentage    float64 `json:"group_percentage"`
}

// UserBalanceResponse is one member's position.
type UserBalanceResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	IsShadow   bool   `json:"is_shadow"`
	TotalPaid  string `json:"total_paid"`
	TotalShare string `json:"total_share"`
	NetBalance string `json:"net_balance"`
}

// SimplifiedDebtResponse is one suggested settlement transfer.
type SimplifiedDebtResponse struct {
	FromUserID string `json:"from_user_id"`
	FromName   string `json:"from_name"`
	ToUserID   string `json:"to_user_id"`
	ToName     string `json:"to_name"`
	Amount     string `json:"amount"`
}

// ConversionStatsResponse counts converted expenses.
type ConversionStatsResponse struct {
	ConvertedCount int `json:"converted_count"`
	TotalCount     int `json:"total_count"`
}

// ConversionResponse shows the rate applied to one expense.
// Converted is null when no rate was available.
type ConversionResponse struct {
	ExpenseID  string         `json:"expense_id"`
	Original   MoneyResponse  `json:"original"`
	Converted  *MoneyResponse `json:"converted"`
	RateSource string         `json:"rate_source,omitempty"`
	RateDate   *string        `json:"rate_date,omitempty"`
}

// IssueResponse is a non-fatal problem found while computing balances.
type IssueResponse struct {
	Kind      string  `json:"kind"`
	Code      string  `json:"code"`
	ExpenseID *string `json:"expense_id,omitempty"`
	Message   string  `json:"message"`
}

// BalanceSummaryResponse is the full balance view of a group.
type BalanceSummaryResponse struct {
	GroupID           string                   `json:"group_id"`
	GroupName         string                   `json:"group_name"`
	DisplayCurrency   string                   `json:"display_currency"`
	ConversionMode    string                   `json:"conversion_mode"`
	TotalExpenses     string                   `json:"total_expenses"`
	OriginalTotals    []MoneyResponse          `json:"original_totals"`
	CategoryBreakdown []CategoryTotalResponse  `json:"category_breakdown"`
	PersonalVsGroup   PersonalVsGroupResponse  `json:"personal_vs_group"`
	UserBalances      []UserBalanceResponse    `json:"user_balances"`
	SimplifiedDebts   []SimplifiedDebtResponse `json:"simplified_debts"`
	ConversionStats   ConversionStatsResponse  `json:"conversion_stats"`
	Conversions       []ConversionResponse     `json:"conversions"`
	Issues            []IssueResponse          `json:"issues"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// ToBalanceSummaryResponse converts a computed summary.
// Display amounts use the minor-unit digits of the display currency.
func ToBalanceSummaryResponse(s *entity.BalanceSummary) BalanceSummaryResponse {
	cur := s.DisplayCurrency
	response := BalanceSummaryResponse{
		GroupID:           s.GroupID.String(),
		GroupName:         s.GroupName,
		DisplayCurrency:   cur,
		ConversionMode:    string(s.ConversionMode),
		TotalExpenses:     FormatAmount(s.TotalExpenses, cur),
		OriginalTotals:    make([]MoneyResponse, len(s.OriginalTotals)),
		CategoryBreakdown: make([]CategoryTotalResponse, len(s.CategoryBreakdown)),
		PersonalVsGroup: PersonalVsGroupResponse{
			PersonalTotal:      FormatAmount(s.PersonalVsGroup.PersonalTotal, cur),
			GroupTotal:         FormatAmount(s.PersonalVsGroup.GroupTotal, cur),
			PersonalPercentage: s.PersonalVsGroup.PersonalPercentage,
			GroupPercentage:    s.PersonalVsGroup.GroupPercentage,
		},
		UserBalances:    make([]UserBalanceResponse, len(s.UserBalances)),
		SimplifiedDebts: make([]SimplifiedDebtResponse, len(s.SimplifiedDebts)),
		ConversionStats: ConversionStatsResponse{
			ConvertedCount: s.ConversionStats.ConvertedCount,
			TotalCount:     s.ConversionStats.TotalCount,
		},
		Conversions: make([]ConversionResponse, len(s.Conversions)),
		Issues:      make([]IssueResponse, len(s.Issues)),
		GeneratedAt: s.GeneratedAt,
	}

	for i, m := range s.OriginalTotals {
		response.OriginalTotals[i] = MoneyResponse{Amount: FormatAmount(m.Amount, m.Currency), Currency: m.Currency}
	}
	for i, c := range s.CategoryBreakdown {
		row := CategoryTotalResponse{
			CategoryKey:  c.CategoryKey,
			CategoryName: c.CategoryName,
			Amount:       FormatAmount(c.Amount, cur),
			Percentage:   c.Percentage,
			ExpenseCount: c.ExpenseCount,
		}
		if c.CategoryID != nil {
			id := c.CategoryID.String()
			row.CategoryID = &id
		}
		response.CategoryBreakdown[i] = row
	}
	for i, b := range s.UserBalances {
		response.UserBalances[i] = UserBalanceResponse{
			UserID:     b.UserID.String(),
			Name:       b.Name,
			Email:      b.Email,
			IsShadow:   b.IsShadow,
			TotalPaid:  FormatAmount(b.TotalPaid, cur),
			TotalShare: FormatAmount(b.TotalShare, cur),
			NetBalance: FormatAmount(b.NetBalance, cur),
		}
	}
	for i, d := range s.SimplifiedDebts {
		response.SimplifiedDebts[i] = SimplifiedDebtResponse{
			FromUserID: d.FromUserID.String(),
			FromName:   d.FromName,
			ToUserID:   d.ToUserID.String(),
			ToName:     d.ToName,
			Amount:     FormatAmount(d.Amount, cur),
		}
	}
	for i, c := range s.Conversions {
		item := ConversionResponse{
			ExpenseID:  c.ExpenseID.String(),
			Original:   MoneyResponse{Amount: FormatAmount(c.Original.Amount, c.Original.Currency), Currency: c.Original.Currency},
			RateSource: string(c.RateSource),
		}
		if c.Converted != nil {
			item.Converted = &MoneyResponse{Amount: FormatAmount(c.Converted.Amount, c.Converted.Currency), Currency: c.Converted.Currency}
		}
		if c.RateDate != nil {
			day := c.RateDate.Format(time.DateOnly)
			item.RateDate = &day
		}
		response.Conversions[i] = item
	}
	for i, issue := range s.Issues {
		item := IssueResponse{
			Kind:    string(issue.Kind),
			Code:    issue.Code,
			Message: issue.Message,
		}
		if issue.ExpenseID != nil {
			id := issue.ExpenseID.String()
			item.ExpenseID = &id
		}
		response.Issues[i] = item
	}

	return response
}
