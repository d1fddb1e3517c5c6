package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidAmount is returned when the expense amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidCurrency is returned when the currency is not an ISO 4217 code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrSplitsRequired is returned when a group expense has no splits.
	ErrSplitsRequired = errors.New("at least one split is required")

	// ErrSplitSumMismatch is returned when split shares do not add up to the amount.
	ErrSplitSumMismatch = errors.New("split shares must add up to the expense amount")

	// ErrSplitUserNotMember is returned when a split references a non-member.
	ErrSplitUserNotMember = errors.New("split user is not a member of this group")

	// ErrDuplicateSplitUser is returned when the same user appears twice in splits.
	ErrDuplicateSplitUser = errors.New("user appears more than once in splits")

	// ErrNegativeShare is returned when a split share is negative.
	ErrNegativeShare = errors.New("split share cannot be negative")

	// ErrNotExpenseOwner is returned when a user tries to delete someone else's expense.
	ErrNotExpenseOwner = errors.New("only the payer or a group admin can delete this expense")
)

type ExpenseErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-010001"

	// Validation errors (02XXXX)
	ErrCodeExpenseInvalidAmount   ExpenseErrorCode = "EXP-020001"
	ErrCodeExpenseInvalidCurrency ExpenseErrorCode = "EXP-020002"
	ErrCodeSplitsRequired         ExpenseErrorCode = "EXP-020003"
	ErrCodeExpenseSplitSum        ExpenseErrorCode = "EXP-020004"
	ErrCodeExpenseSplitNotMember  ExpenseErrorCode = "EXP-020005"
	ErrCodeDuplicateSplitUser     ExpenseErrorCode = "EXP-020006"
	ErrCodeExpenseNegativeShare   ExpenseErrorCode = "EXP-020007"
	ErrCodeExpenseInvalidFields   ExpenseErrorCode = "EXP-020008"

	// Authorization errors (04XXXX)
	ErrCodeNotExpenseOwner ExpenseErrorCode = "EXP-040001"
)

type ExpenseError struct {
	coded[ExpenseErrorCode]
}

func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{coded[ExpenseErrorCode]{Code: code, Message: message, Err: err}}
}
