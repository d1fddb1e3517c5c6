package error

import "errors"

// Authentication domain errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrTermsNotAccepted = errors.New("terms of service must be accepted")
	ErrWeakPassword = errors.New("password does not meet minimum requirements")
	ErrInvalidEmail = errors.New("invalid email format")
)

type AuthErrorCode string

const (
	// Registration errors (01XXXX)
	ErrCodeEmailExists      AuthErrorCode = "AUTH-010001"
	ErrCodeTermsNotAccepted AuthErrorCode = "AUTH-010002"
	ErrCodeWeakPassword     AuthErrorCode = "AUTH-010003"
	ErrCodeInvalidEmail     AuthErrorCode = "AUTH-010004"
	ErrCodeMissingFields    AuthErrorCode = "AUTH-010005"

	// Login errors (02XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeUserNotFound       AuthErrorCode = "AUTH-020002"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-020003"

	// Token errors (03XXXX)
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"

	// Preference errors (06XXXX)
	ErrCodeInvalidPreferences AuthErrorCode = "AUTH-060001"
)

type AuthError struct {
	coded[AuthErrorCode]
}

func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{coded[AuthErrorCode]{Code: code, Message: message, Err: err}}
}
