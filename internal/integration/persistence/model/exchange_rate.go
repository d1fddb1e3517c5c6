package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
)

// ExchangeRateModel represents the exchange_rates table in the database.
// There is at most one rate per pair and day.
type ExchangeRateModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromCurrency string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_pair_day"`
	ToCurrency   string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_pair_day"`
	AsOf         time.Time       `gorm:"not null;uniqueIndex:idx_rate_pair_day"`
	Rate         decimal.Decimal `gorm:"type:decimal(24,12);not null"`
	Source       string          `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ExchangeRateModel.
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToEntity converts an ExchangeRateModel to a domain ExchangeRate entity.
func (m *ExchangeRateModel) ToEntity() *entity.ExchangeRate {
	return &entity.ExchangeRate{
		ID:        m.ID,
		From:      m.FromCurrency,
		To:        m.ToCurrency,
		Rate:      m.Rate,
		AsOf:      m.AsOf.UTC(),
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
}

// ExchangeRateFromEntity creates an ExchangeRateModel from a domain ExchangeRate entity.
func ExchangeRateFromEntity(rate *entity.ExchangeRate) *ExchangeRateModel {
	return &ExchangeRateModel{
		ID:           rate.ID,
		FromCurrency: rate.From,
		ToCurrency:   rate.To,
		AsOf:         rate.AsOf,
		Rate:         rate.Rate,
		Source:       rate.Source,
		CreatedAt:    rate.CreatedAt,
	}
}
