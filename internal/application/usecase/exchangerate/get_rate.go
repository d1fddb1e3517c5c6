package exchangerate

import (
	"context"
	"fmt"
	"time"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// GetRateInput represents a rate quote request. A nil Date asks for the latest rate.
type GetRateInput struct {
	From string
	To   string
	Date *time.Time
}

// GetRateUseCase quotes a rate through the configured provider chain.
type GetRateUseCase struct {
	provider adapter.ExchangeRateProvider
}

// NewGetRateUseCase creates a new GetRateUseCase instance.
func NewGetRateUseCase(provider adapter.ExchangeRateProvider) *GetRateUseCase {
	return &GetRateUseCase{provider: provider}
}

// Execute performs the lookup.
func (uc *GetRateUseCase) Execute(ctx context.Context, input GetRateInput) (*entity.ExchangeRate, error) {
	from, to, err := parsePair(input.From, input.To)
	if err != nil {
		return nil, err
	}

	var on *time.Time
	if input.Date != nil {
		day := entity.TruncateToDay(*input.Date)
		on = &day
	}

	rate, err := uc.provider.GetRate(ctx, from.String(), to.String(), on)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	if rate == nil {
		return nil, domainerror.NewExchangeRateError(
			domainerror.ErrCodeRateNotFound,
			fmt.Sprintf("no rate for %s/%s", from, to),
			domainerror.ErrRateNotFound,
		)
	}
	return rate, nil
}
