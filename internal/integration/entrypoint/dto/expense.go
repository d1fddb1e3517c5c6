package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

// SplitRequest is one member's share in a create expense request.
type SplitRequest struct {
	UserID string          `json:"user_id" binding:"required,uuid"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateExpenseRequest represents the request body for a group expense.
// Either Splits or SplitEqually must be given.
type CreateExpenseRequest struct {
	PayerID      string          `json:"payer_id" binding:"omitempty,uuid"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency" binding:"required"`
	Date         string          `json:"date" binding:"omitempty,isodate"`
	Description  string          `json:"description" binding:"max=255"`
	CategoryID   string          `json:"category_id" binding:"omitempty,uuid"`
	Splits       []SplitRequest  `json:"splits" binding:"omitempty,dive"`
	SplitEqually []string        `json:"split_equally" binding:"omitempty,dive,uuid"`
}

// CreatePersonalExpenseRequest represents the request body for a personal expense.
type CreatePersonalExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"required"`
	Date        string          `json:"date" binding:"omitempty,isodate"`
	Description string          `json:"description" binding:"max=255"`
	CategoryID  string          `json:"category_id" binding:"omitempty,uuid"`
}

// SplitResponse is one member's share in an expense response.
type SplitResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	GroupID     *string         `json:"group_id,omitempty"`
	PayerID     string          `json:"payer_id"`
	Amount      string          `json:"amount"`
	Currency    string          `json:"currency"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id,omitempty"`
	IsPersonal  bool            `json:"is_personal"`
	Splits      []SplitResponse `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseListResponse represents the response for listing expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// FormatAmount renders an amount with the minor-unit digits of its currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := valueobject.CurrencyCode(currency)
	return code.Round(amount).StringFixed(code.Scale())
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	response := ExpenseResponse{
		ID:          e.ID.String(),
		PayerID:     e.PayerID.String(),
		Amount:      FormatAmount(e.Amount, e.Currency),
		Currency:    e.Currency,
		Date:        e.Date.Format(DateLayout),
		Description: e.Description,
		IsPersonal:  e.IsPersonal,
		Splits:      make([]SplitResponse, len(e.Splits)),
		CreatedAt:   e.CreatedAt,
	}
	if e.GroupID != nil {
		id := e.GroupID.String()
		response.GroupID = &id
	}
	if e.CategoryID != nil {
		id := e.CategoryID.String()
		response.CategoryID = &id
	}
	for i, s := range e.Splits {
		response.Splits[i] = SplitResponse{
			UserID: s.UserID.String(),
			Amount: FormatAmount(s.ShareAmount, e.Currency),
		}
	}
	return response
}

// ToExpenseListResponse converts a list of expenses.
func ToExpenseListResponse(expenses []*entity.Expense) ExpenseListResponse {
	items := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		items[i] = ToExpenseResponse(e)
	}
	return ExpenseListResponse{Expenses: items}
}
