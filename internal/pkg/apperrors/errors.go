package apperrors

import "errors"

// Account lifecycle errors
var (
	ErrDuplicateAccount   = errors.New("account with this email or employee ID already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountNotActive   = errors.New("account is deactivated, please contact the administrator")
	ErrAccountNotApproved = errors.New("account is pending admin approval")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrNotFirstLogin      = errors.New("account has already completed its first login")
)

// Opaque token errors (email verification and password reset links)
var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// Bearer token errors
var (
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token has expired")
)

// Validation and authorization errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrResourceNotFound = errors.New("resource not found")
	ErrBadRequest       = errors.New("bad request")
)
