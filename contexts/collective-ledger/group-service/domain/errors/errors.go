package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("user is already a member of this group")
	ErrTierNotFound       = errors.New("tier not found")
	ErrUnknownRole        = errors.New("unknown membership role")
	ErrValidationFailed   = errors.New("validation failed")
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
