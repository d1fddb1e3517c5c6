// Package balance computes group balances, settlement debts and balance summaries.
package balance

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
)

// RateQuote is the outcome of a single exchange rate lookup.
// A nil Rate means the lookup failed and amounts cannot be converted.
type RateQuote struct {
	From     string
	To       string
	Rate     *decimal.Decimal
	RateDate *time.Time
	Source   entity.RateSource
	Err      error
}

// Apply converts amount with the quoted rate.
func (q RateQuote) Apply(amount decimal.Decimal) entity.ConvertedAmount {
	result := entity.ConvertedAmount{
		Original:   entity.Money{Amount: amount, Currency: q.From},
		RateDate:   q.RateDate,
		RateSource: q.Source,
	}
	if q.Rate == nil {
		return result
	}
	if q.Source == entity.RateSourceIdentity {
		result.Converted = &entity.Money{Amount: amount, Currency: q.To}
		return result
	}
	result.Converted = &entity.Money{Amount: amount.Mul(*q.Rate), Currency: q.To}
	return result
}

// Resolver converts amounts between currencies according to a conversion mode.
// It holds no state besides its provider and does no caching of its own.
type Resolver struct {
	provider adapter.ExchangeRateProvider
	timeout  time.Duration
}

// NewResolver creates a Resolver. A zero timeout leaves lookups bounded only by ctx.
func NewResolver(provider adapter.ExchangeRateProvider, timeout time.Duration) *Resolver {
	return &Resolver{
		provider: provider,
		timeout:  timeout,
	}
}

// Resolve converts amount from one currency to another.
// Failures never return an error: the result simply carries no converted amount.
func (r *Resolver) Resolve(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time, mode entity.ConversionMode) entity.ConvertedAmount {
	return r.LookupRate(ctx, from, to, date, mode).Apply(amount)
}

// LookupRate fetches the rate for one currency pair.
// Simple and off modes use the latest rate, smart mode uses the rate of date.
func (r *Resolver) LookupRate(ctx context.Context, from, to string, date time.Time, mode entity.ConversionMode) RateQuote {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		one := decimal.NewFromInt(1)
		return RateQuote{From: from, To: to, Rate: &one, Source: entity.RateSourceIdentity}
	}

	quote := RateQuote{From: from, To: to, Source: entity.RateSourceCurrent}
	var on *time.Time
	if mode == entity.ConversionModeSmart {
		day := entity.TruncateToDay(date)
		on = &day
		quote.Source = entity.RateSourceHistorical
	}

	if r.provider == nil {
		quote.Err = errNoProvider
		return quote
	}

	lookupCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	rate, err := r.provider.GetRate(lookupCtx, from, to, on)
	if err != nil {
		quote.Err = err
		return quote
	}
	if rate == nil || !rate.Rate.IsPositive() {
		quote.Err = errRateUnavailable
		return quote
	}

	value := rate.Rate
	asOf := rate.AsOf
	quote.Rate = &value
	quote.RateDate = &asOf
	return quote
}
