package error

import "errors"

// Balance computation errors.
var (
	// ErrDataInconsistency is reported when stored data violates a balance invariant.
	ErrDataInconsistency = errors.New("balance data is inconsistent")

	// ErrConversionUnavailable is reported when no exchange rate could be obtained.
	ErrConversionUnavailable = errors.New("currency conversion unavailable")

	// ErrInvalidExpenseInput is reported when an expense cannot take part in balances.
	ErrInvalidExpenseInput = errors.New("invalid expense input")

	// ErrInvalidDisplayCurrency is returned when the display currency is not an ISO 4217 code.
	ErrInvalidDisplayCurrency = errors.New("invalid display currency")

	// ErrInvalidConversionMode is returned when the conversion mode is unknown.
	ErrInvalidConversionMode = errors.New("invalid conversion mode")
)

type BalanceErrorCode string

const (
	// Request validation errors (01XXXX)
	ErrCodeInvalidDisplayCurrency BalanceErrorCode = "BAL-010001"
	ErrCodeInvalidConversionMode  BalanceErrorCode = "BAL-010002"

	// Expense input errors (02XXXX)
	ErrCodePayerNotMember      BalanceErrorCode = "BAL-020001"
	ErrCodeSplitUserNotMember  BalanceErrorCode = "BAL-020002"
	ErrCodeNonPositiveAmount   BalanceErrorCode = "BAL-020003"
	ErrCodeNegativeShare       BalanceErrorCode = "BAL-020004"
	ErrCodeInvalidCurrency     BalanceErrorCode = "BAL-020005"
	ErrCodeMissingSplits       BalanceErrorCode = "BAL-020006"
	ErrCodeExpenseOutsideGroup BalanceErrorCode = "BAL-020007"

	// Consistency errors (03XXXX)
	ErrCodeSplitSumMismatch BalanceErrorCode = "BAL-030001"
	ErrCodeNonZeroSum       BalanceErrorCode = "BAL-030002"

	// Conversion errors (04XXXX)
	ErrCodeConversionUnavailable BalanceErrorCode = "BAL-040001"
)

type BalanceError struct {
	coded[BalanceErrorCode]
}

func NewBalanceError(code BalanceErrorCode, message string, err error) *BalanceError {
	return &BalanceError{coded[BalanceErrorCode]{Code: code, Message: message, Err: err}}
}
