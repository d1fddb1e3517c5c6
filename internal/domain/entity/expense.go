package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Split is one member's assigned share of an expense.
type Split struct {
	UserID      uuid.UUID
	ShareAmount decimal.Decimal
}

// Expense is a payment made by one member and divided among members.
// Personal expenses belong to the payer alone and carry no group.
type Expense struct {
	ID          uuid.UUID
	GroupID     *uuid.UUID
	PayerID     uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	CategoryID  *uuid.UUID
	Description string
	Splits      []Split
	IsPersonal  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewGroupExpense creates an expense shared inside a group.
func NewGroupExpense(groupID, payerID uuid.UUID, amount decimal.Decimal, currency string, date time.Time, description string, categoryID *uuid.UUID, splits []Split) *Expense {
	now := time.Now().UTC()
	gid := groupID

	return &Expense{
		ID:          uuid.New(),
		GroupID:     &gid,
		PayerID:     payerID,
		Amount:      amount,
		Currency:    currency,
		Date:        date,
		CategoryID:  categoryID,
		Description: description,
		Splits:      splits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPersonalExpense creates an expense owned entirely by the payer.
func NewPersonalExpense(payerID uuid.UUID, amount decimal.Decimal, currency string, date time.Time, description string, categoryID *uuid.UUID) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:          uuid.New(),
		PayerID:     payerID,
		Amount:      amount,
		Currency:    currency,
		Date:        date,
		CategoryID:  categoryID,
		Description: description,
		Splits:      []Split{{UserID: payerID, ShareAmount: amount}},
		IsPersonal:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsGroupExpense reports whether the expense participates in group balances.
func (e *Expense) IsGroupExpense() bool {
	return !e.IsPersonal && e.GroupID != nil
}

// SplitTotal returns the sum of all split shares.
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.ShareAmount)
	}
	return total
}
