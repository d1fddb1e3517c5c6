package error

import "errors"

// Exchange rate domain errors.
var (
	// ErrRateNotFound is returned when no provider knows the requested pair.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrInvalidRate is returned when a recorded rate is zero or negative.
	ErrInvalidRate = errors.New("invalid exchange rate")

	// ErrInvalidCurrencyPair is returned when a pair uses an unknown or repeated currency.
	ErrInvalidCurrencyPair = errors.New("invalid currency pair")
)

type ExchangeRateErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCurrencyPair ExchangeRateErrorCode = "FX-010001"
	ErrCodeInvalidRate         ExchangeRateErrorCode = "FX-010002"

	// Lookup errors (02XXXX)
	ErrCodeRateNotFound ExchangeRateErrorCode = "FX-020001"
)

type ExchangeRateError struct {
	coded[ExchangeRateErrorCode]
}

func NewExchangeRateError(code ExchangeRateErrorCode, message string, err error) *ExchangeRateError {
	return &ExchangeRateError{coded[ExchangeRateErrorCode]{Code: code, Message: message, Err: err}}
}
