package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/integration/persistence/model"
)

// exchangeRateRepository implements the adapter.ExchangeRateRepository interface.
type exchangeRateRepository struct {
	db *gorm.DB
}

// NewExchangeRateRepository creates a new exchange rate repository instance.
func NewExchangeRateRepository(db *gorm.DB) adapter.ExchangeRateRepository {
	return &exchangeRateRepository{
		db: db,
	}
}

// GetRate returns the newest stored rate on or before on, or the newest overall
// when on is nil. Returns nil when nothing qualifies.
func (r *exchangeRateRepository) GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error) {
	query := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to)
	if on != nil {
		query = query.Where("as_of <= ?", entity.TruncateToDay(*on))
	}

	var rateModel model.ExchangeRateModel
	result := query.Order("as_of DESC").First(&rateModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return rateModel.ToEntity(), nil
}

// Save inserts the rate or replaces the one stored for the same pair and day.
func (r *exchangeRateRepository) Save(ctx context.Context, rate *entity.ExchangeRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}, {Name: "as_of"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "created_at"}),
		}).
		Create(model.ExchangeRateFromEntity(rate)).Error
}
