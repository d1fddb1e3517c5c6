package dto

import (
	"github.com/shopspring/decimal"

	"github.com/groupledger/backend/internal/domain/entity"
)

// RecordRateRequest represents the request body for storing a manual rate.
type RecordRateRequest struct {
	From string          `json:"from" binding:"required,currency"`
	To   string          `json:"to" binding:"required,currency"`
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date" binding:"omitempty,isodate"`
}

// RateQuery holds the query parameters of a rate lookup.
type RateQuery struct {
	From string `form:"from" binding:"required,currency"`
	To   string `form:"to" binding:"required,currency"`
	Date string `form:"date" binding:"omitempty,isodate"`
}

// ExchangeRateResponse represents an exchange rate in API responses.
type ExchangeRateResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Rate   string `json:"rate"`
	AsOf   string `json:"as_of"`
	Source string `json:"source"`
}

// ToExchangeRateResponse converts a domain ExchangeRate entity to its response DTO.
func ToExchangeRateResponse(r *entity.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		From:   r.From,
		To:     r.To,
		Rate:   r.Rate.String(),
		AsOf:   r.AsOf.Format(DateLayout),
		Source: r.Source,
	}
}
