package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate sources reported by providers.
const (
	RateProviderAPI    = "api"
	RateProviderStored = "stored"
	RateProviderCache  = "cache"
)

// ExchangeRate is the price of one unit of From expressed in To, valid as of AsOf.
type ExchangeRate struct {
	ID        uuid.UUID
	From      string
	To        string
	Rate      decimal.Decimal
	AsOf      time.Time
	Source    string
	CreatedAt time.Time
}

// NewExchangeRate creates a stored exchange rate entry.
func NewExchangeRate(from, to string, rate decimal.Decimal, asOf time.Time, source string) *ExchangeRate {
	return &ExchangeRate{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Rate:      rate,
		AsOf:      TruncateToDay(asOf),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// TruncateToDay drops the time-of-day component in UTC.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
