package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAPIKey            = errors.New("invalid api key")
	ErrInvalidToken             = errors.New("invalid bearer credential")
	ErrBadCredentials           = errors.New("bad credentials")
	ErrUserNotFound             = errors.New("user not found")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrEmailTaken               = errors.New("email already registered")
	ErrPreapprovalMismatch      = errors.New("preapproval key does not match")
	ErrPreapprovalMissing       = errors.New("no preapproval key requested")
	ErrPreapprovalGatewayFailed = errors.New("preapproval gateway failed")
	ErrValidationFailed         = errors.New("validation failed")
)

// ValidationError enumerates the offending field names alongside the
// ErrValidationFailed sentinel.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
