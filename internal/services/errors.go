package services

import (
	"errors"
	"fmt"

	"hivedesk/internal/repositories"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = repositories.ErrNotFound
	ErrAlreadyExists        = repositories.ErrDuplicate
	ErrInvalidPurpose       = errors.New("invalid purpose")
	ErrOTPExpired           = errors.New("otp expired")
	ErrOTPMismatch          = errors.New("otp mismatch")
	ErrNoPasswordConfigured = errors.New("no password configured")
	ErrAuthFailed           = errors.New("authentication failed")
	ErrNotificationFailed   = errors.New("notification failed")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrCategoryInUse        = errors.New("category in use")
	ErrNotVerified          = errors.New("account not verified")

	// ErrNoPendingOTP is an ErrOTPExpired raised when no record holds a code.
	ErrNoPendingOTP = fmt.Errorf("%w: no otp on record", ErrOTPExpired)
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }
