package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeNotFound indicates that a requested resource was not found
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeRepository indicates a repository operation error
	ErrCodeRepository ErrorCode = "REPOSITORY_ERROR"

	// ErrCodeTimezone indicates a timezone-related error
	ErrCodeTimezone ErrorCode = "TIMEZONE_ERROR"

	// ErrCodePersistence indicates a transient read/write failure against the habit store
	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// ErrCodeConflict indicates an optimistic concurrency conflict on save
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeDoubleCompletion indicates a habit was already completed for the day
	ErrCodeDoubleCompletion ErrorCode = "DOUBLE_COMPLETION"

	// ErrCodeGraceWindowExpired indicates the one-day grace window is no longer open
	ErrCodeGraceWindowExpired ErrorCode = "GRACE_WINDOW_EXPIRED"

	// ErrCodeStaleReference indicates a completion for a day the habit has already moved past
	ErrCodeStaleReference ErrorCode = "STALE_REFERENCE"

	// ErrCodeInvariantViolation indicates a transition would break a habit invariant
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeCSVExport indicates a CSV export-related error
	ErrCodeCSVExport ErrorCode = "CSV_EXPORT_ERROR"

	// ErrCodeFileOperation indicates a file operation error
	ErrCodeFileOperation ErrorCode = "FILE_OPERATION_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// ErrRepository creates a repository error
func ErrRepository(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeRepository, fmt.Sprintf("repository error in %s", operation), err).
		WithDetails("operation", operation)
}

// IsErrorCode checks if an error, or any error it wraps, has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// Timezone errors

// ErrTimezoneParse creates a timezone parsing error
func ErrTimezoneParse(timezoneName string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeTimezone, fmt.Sprintf("failed to parse timezone: %q", timezoneName), err).
		WithDetails("timezoneName", timezoneName).
		WithDetails("fallback", "UTC")
}

// Persistence errors

// ErrPersistence creates a persistence failure error. The habit being resolved
// is left untouched and will be retried on the next pass.
func ErrPersistence(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePersistence, fmt.Sprintf("persistence failure in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrConflict creates a version conflict error for a compare-and-swap save
func ErrConflict(habitID string, expectedVersion int64) *DomainError {
	return NewDomainError(ErrCodeConflict, "habit was modified concurrently").
		WithDetails("habitID", habitID).
		WithDetails("expectedVersion", expectedVersion)
}

// Habit lifecycle errors

// ErrDoubleCompletion creates an "already done" error
func ErrDoubleCompletion(habitID string, day string) *DomainError {
	return NewDomainError(ErrCodeDoubleCompletion, fmt.Sprintf("habit already completed for %s", day)).
		WithDetails("habitID", habitID).
		WithDetails("day", day)
}

// ErrGraceWindowExpired creates an error for a redemption attempted outside the grace window
func ErrGraceWindowExpired(habitID string, state string) *DomainError {
	return NewDomainError(ErrCodeGraceWindowExpired, "grace window is no longer open").
		WithDetails("habitID", habitID).
		WithDetails("state", state)
}

// ErrStaleReference creates an error for a completion whose local day is
// earlier than what the habit already reflects
func ErrStaleReference(habitID string, day string, resolvedDay string) *DomainError {
	return NewDomainError(ErrCodeStaleReference, fmt.Sprintf("%s precedes the habit's resolved day %s", day, resolvedDay)).
		WithDetails("habitID", habitID).
		WithDetails("day", day).
		WithDetails("resolvedDay", resolvedDay)
}

// ErrInvariantViolation creates an invariant violation error
func ErrInvariantViolation(habitID string, invariant string) *DomainError {
	return NewDomainError(ErrCodeInvariantViolation, fmt.Sprintf("habit invariant violated: %s", invariant)).
		WithDetails("habitID", habitID).
		WithDetails("invariant", invariant)
}

// CSV Export errors

// ErrCSVExport creates a CSV export error
func ErrCSVExport(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeCSVExport, fmt.Sprintf("CSV export error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrCSVExportWithCause creates a CSV export error with cause
func ErrCSVExportWithCause(operation string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeCSVExport, fmt.Sprintf("CSV export error in %s: %s", operation, reason), err).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// File operation errors

// ErrFileOperationWithCause creates a file operation error with cause
func ErrFileOperationWithCause(operation string, path string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFileOperation, fmt.Sprintf("file operation error in %s", operation), err).
		WithDetails("operation", operation).
		WithDetails("path", path)
}

// ErrPathTraversal creates a path traversal error
func ErrPathTraversal(path string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, "path contains directory traversal").
		WithDetails("path", path).
		WithDetails("securityViolation", "directory_traversal")
}

// ErrSystemDirectory creates an error for writes into a protected system directory
func ErrSystemDirectory(path string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, "cannot write to system directory").
		WithDetails("path", path).
		WithDetails("securityViolation", "system_directory")
}
