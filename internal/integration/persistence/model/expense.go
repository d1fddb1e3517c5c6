package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
// Personal expenses have a nil GroupID.
type ExpenseModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	GroupID     *uuid.UUID          `gorm:"type:uuid;index"`
	PayerID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,8);not null"`
	Currency    string              `gorm:"type:varchar(3);not null"`
	Date        time.Time           `gorm:"not null;index"`
	CategoryID  *uuid.UUID          `gorm:"type:uuid;index"`
	Description string              `gorm:"type:varchar(255)"`
	IsPersonal  bool                `gorm:"not null;default:false"`
	Splits      []ExpenseSplitModel `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"not null"`
	UpdatedAt   time.Time           `gorm:"not null"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ExpenseSplitModel represents the expense_splits table in the database.
type ExpenseSplitModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExpenseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShareAmount decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Position    int             `gorm:"not null"`
}

// TableName returns the table name for the ExpenseSplitModel.
func (ExpenseSplitModel) TableName() string {
	return "expense_splits"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
// Splits must already be ordered by Position.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	splits := make([]entity.Split, len(m.Splits))
	for i, s := range m.Splits {
		splits[i] = entity.Split{UserID: s.UserID, ShareAmount: s.ShareAmount}
	}
	return &entity.Expense{
		ID:          m.ID,
		GroupID:     m.GroupID,
		PayerID:     m.PayerID,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Date:        m.Date,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Splits:      splits,
		IsPersonal:  m.IsPersonal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel with its splits from a domain Expense entity.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	splits := make([]ExpenseSplitModel, len(expense.Splits))
	for i, s := range expense.Splits {
		splits[i] = ExpenseSplitModel{
			ID:          uuid.New(),
			ExpenseID:   expense.ID,
			UserID:      s.UserID,
			ShareAmount: s.ShareAmount,
			Position:    i,
		}
	}
	return &ExpenseModel{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		PayerID:     expense.PayerID,
		Amount:      expense.Amount,
		Currency:    expense.Currency,
		Date:        expense.Date,
		CategoryID:  expense.CategoryID,
		Description: expense.Description,
		IsPersonal:  expense.IsPersonal,
		Splits:      splits,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}
