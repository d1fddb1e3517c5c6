// Package exchangerate contains use cases for stored and quoted exchange rates.
package exchangerate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/domain/valueobject"
)

// RecordRateInput represents a manually entered rate.
type RecordRateInput struct {
	From string
	To   string
	Rate decimal.Decimal
	Date time.Time // Optional, defaults to today
}

// RecordRateUseCase stores a rate that providers fall back to.
type RecordRateUseCase struct {
	rateRepo adapter.ExchangeRateRepository
}

// NewRecordRateUseCase creates a new RecordRateUseCase instance.
func NewRecordRateUseCase(rateRepo adapter.ExchangeRateRepository) *RecordRateUseCase {
	return &RecordRateUseCase{rateRepo: rateRepo}
}

// Execute validates and saves the rate. An existing rate for the same pair and day is replaced.
func (uc *RecordRateUseCase) Execute(ctx context.Context, input RecordRateInput) (*entity.ExchangeRate, error) {
	from, to, err := parsePair(input.From, input.To)
	if err != nil {
		return nil, err
	}

	if !input.Rate.IsPositive() {
		return nil, domainerror.NewExchangeRateError(
			domainerror.ErrCodeInvalidRate,
			"rate must be greater than zero",
			domainerror.ErrInvalidRate,
		)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	rate := entity.NewExchangeRate(from.String(), to.String(), input.Rate, date, entity.RateProviderStored)
	if err := uc.rateRepo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	slog.InfoContext(ctx, "Exchange rate recorded",
		"from", rate.From,
		"to", rate.To,
		"rate", rate.Rate.String(),
		"as_of", rate.AsOf.Format(time.DateOnly),
	)
	return rate, nil
}

func parsePair(fromCode, toCode string) (valueobject.CurrencyCode, valueobject.CurrencyCode, error) {
	from, okFrom := valueobject.ParseCurrency(fromCode)
	to, okTo := valueobject.ParseCurrency(toCode)
	if !okFrom || !okTo || from == to {
		return "", "", domainerror.NewExchangeRateError(
			domainerror.ErrCodeInvalidCurrencyPair,
			fmt.Sprintf("%q/%q is not a valid currency pair", fromCode, toCode),
			domainerror.ErrInvalidCurrencyPair,
		)
	}
	return from, to, nil
}
