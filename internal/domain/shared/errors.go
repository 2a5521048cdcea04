package shared

import "fmt"

// DomainError represents a domain-level error.
// Two DomainErrors match under errors.Is when their codes are equal, so the
// package-level sentinels can be compared against errors carrying details.
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with key set to value
func (e *DomainError) WithDetail(key, value string) *DomainError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithMessage returns a copy of the error with a formatted message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Details: e.Details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
