package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for each error category. Callers classify errors with
// errors.Is against these sentinels rather than matching concrete types.
var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrObjectNotFound    = errors.New("object not found")
	ErrStateConflict     = errors.New("state conflict")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrExternalGateway   = errors.New("external gateway failure")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}

// ValueIsRequiredError indicates a required parameter was missing or empty.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValueIsRequired, e.Cause}
	}
	return []error{ErrValueIsRequired}
}

// ValueIsInvalidError indicates a parameter was present but malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValueIsInvalid, e.Cause}
	}
	return []error{ErrValueIsInvalid}
}

// ObjectNotFoundError indicates a referenced entity does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrObjectNotFound, e.Cause}
	}
	return []error{ErrObjectNotFound}
}

// StateConflictError indicates an attempted transition that is illegal given the
// entity's current state: wrong lifecycle status, an already-terminal OTP record,
// an order-number mismatch at pickup, exhausted verification attempts, or losing
// a concurrent assignment claim.
type StateConflictError struct {
	Entity    string
	Current   string
	Attempted string
	Cause     error
}

func NewStateConflictError(entity, current, attempted string) *StateConflictError {
	return &StateConflictError{Entity: entity, Current: current, Attempted: attempted}
}

func NewStateConflictErrorWithCause(entity, current, attempted string, cause error) *StateConflictError {
	return &StateConflictError{Entity: entity, Current: current, Attempted: attempted, Cause: cause}
}

func (e *StateConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s cannot go from %s to %s (cause: %s)",
			ErrStateConflict, e.Entity, e.Current, e.Attempted, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s cannot go from %s to %s",
		ErrStateConflict, e.Entity, e.Current, e.Attempted))
}

func (e *StateConflictError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrStateConflict, e.Cause}
	}
	return []error{ErrStateConflict}
}

// RateLimitError indicates a keyed counter exceeded its window allowance.
// RetryAfter reports how long the caller must wait before the window rolls over.
type RateLimitError struct {
	Key        string
	RetryAfter time.Duration
}

func NewRateLimitError(key string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Key: key, RetryAfter: retryAfter}
}

func (e *RateLimitError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s, retry after %s", ErrRateLimitExceeded, e.Key, e.RetryAfter))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// ExternalGatewayError indicates a collaborator (SMS or payment provider) failed.
// The core never retries these; the failure is surfaced to the caller.
type ExternalGatewayError struct {
	Gateway   string
	Operation string
	Cause     error
}

func NewExternalGatewayError(gateway, operation string, cause error) *ExternalGatewayError {
	return &ExternalGatewayError{Gateway: gateway, Operation: operation, Cause: cause}
}

func (e *ExternalGatewayError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s %s (cause: %s)", ErrExternalGateway, e.Gateway, e.Operation, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s %s", ErrExternalGateway, e.Gateway, e.Operation))
}

func (e *ExternalGatewayError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExternalGateway, e.Cause}
	}
	return []error{ErrExternalGateway}
}
