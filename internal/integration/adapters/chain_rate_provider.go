package adapters

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
)

// ChainRateProvider asks each provider in order and returns the first rate found.
type ChainRateProvider struct {
	providers []adapter.ExchangeRateProvider
}

// NewChainRateProvider creates a chain over the given providers.
func NewChainRateProvider(providers ...adapter.ExchangeRateProvider) *ChainRateProvider {
	return &ChainRateProvider{providers: providers}
}

// GetRate implements adapter.ExchangeRateProvider. Provider errors are only
// returned when no provider in the chain produced a rate.
func (c *ChainRateProvider) GetRate(ctx context.Context, from, to string, on *time.Time) (*entity.ExchangeRate, error) {
	var errs []error
	for i, p := range c.providers {
		rate, err := p.GetRate(ctx, from, to, on)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "Exchange rate provider failed, trying next",
				"provider", i,
				"from", from,
				"to", to,
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		if rate != nil {
			return rate, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
