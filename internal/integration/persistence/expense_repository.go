package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

func orderedSplits(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create stores the expense together with its splits.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(model.ExpenseFromEntity(expense)).Error
}

// FindByID retrieves an expense with its splits.
func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).
		Preload("Splits", orderedSplits).
		Where("id = ?", id).
		First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Delete removes an expense and its splits.
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&model.ExpenseSplitModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.ExpenseModel{}).Error
	})
}

// ListByGroup returns every expense of a group, oldest first.
func (r *expenseRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Expense, error) {
	return r.list(ctx, "group_id = ?", groupID)
}

// ListPersonalByUser returns the personal expenses paid by a user, oldest first.
func (r *expenseRepository) ListPersonalByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	return r.list(ctx, "is_personal = ? AND payer_id = ?", true, userID)
}

func (r *expenseRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Expense, error) {
	var expenseModels []model.ExpenseModel
	result := r.db.WithContext(ctx).
		Preload("Splits", orderedSplits).
		Where(query, args...).
		Order("date ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToEntity()
	}
	return expenses, nil
}
