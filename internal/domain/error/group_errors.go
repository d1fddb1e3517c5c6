package error

import "errors"

// Group domain errors.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupNameTooLong = errors.New("group name too long")
	ErrGroupNameRequired = errors.New("group name is required")
	ErrUserAlreadyMember = errors.New("user is already a member of this group")
	ErrNotGroupAdmin = errors.New("only group admins can perform this action")
	ErrNotGroupMember = errors.New("user is not a member of this group")
	ErrInvalidGroupEmail = errors.New("invalid email address")
	ErrUserNotRegistered = errors.New("user is not registered on the platform")
	ErrMemberIdentityRequired = errors.New("either email or name is required")
)

type GroupErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeGroupNotFound GroupErrorCode = "GRP-010001"

	// Validation errors (02XXXX)
	ErrCodeGroupNameTooLong       GroupErrorCode = "GRP-020001"
	ErrCodeGroupNameRequired      GroupErrorCode = "GRP-020002"
	ErrCodeInvalidGroupEmail      GroupErrorCode = "GRP-020004"
	ErrCodeMissingGroupFields     GroupErrorCode = "GRP-020005"
	ErrCodeMemberIdentityRequired GroupErrorCode = "GRP-020006"

	// Conflict errors (03XXXX)
	ErrCodeUserAlreadyMember GroupErrorCode = "GRP-030002"

	// Authorization errors (04XXXX)
	ErrCodeNotGroupAdmin  GroupErrorCode = "GRP-040001"
	ErrCodeNotGroupMember GroupErrorCode = "GRP-040002"

	// Membership errors (05XXXX)
	ErrCodeUserNotRegistered GroupErrorCode = "GRP-050004"
)

type GroupError struct {
	coded[GroupErrorCode]
}

func NewGroupError(code GroupErrorCode, message string, err error) *GroupError {
	return &GroupError{coded[GroupErrorCode]{Code: code, Message: message, Err: err}}
}
