package error

import "errors"

// Category domain errors.
var (
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrCategoryNameTooLong = errors.New("category name too long")
	ErrInvalidColorFormat = errors.New("invalid color format")
	ErrInvalidOwnerType = errors.New("invalid owner type")
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")
)

type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeInvalidOwnerType      CategoryErrorCode = "CAT-010003"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010008"

	// Conflict errors (02XXXX)
	ErrCodeCategoryNameExists CategoryErrorCode = "CAT-020001"

	// Authorization errors (03XXXX)
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-030001"
)

type CategoryError struct {
	coded[CategoryErrorCode]
}

func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{coded[CategoryErrorCode]{Code: code, Message: message, Err: err}}
}
