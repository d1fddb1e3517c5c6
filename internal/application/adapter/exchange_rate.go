package adapter

import (
	"context"
	"time"

	"github.com/groupledger/backend/internal/domain/entity"
)

// ExchangeRateProvider looks up the rate converting one unit of from into to.
// A nil on asks for the latest rate. Providers may answer with the nearest
// earlier rate when the requested date has none; the returned AsOf tells which.
// A nil rate with a nil error means the pair is unknown.
type ExchangeRateProvider interface {
	GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error)
}

// ExchangeRateRepository stores rates entered manually or fetched earlier.
type ExchangeRateRepository interface {
	ExchangeRateProvider

	// Save inserts or replaces the rate for its pair and date.
	Save(ctx context.Context, rate *entity.ExchangeRate) error
}
