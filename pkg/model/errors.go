package model

import (
	"fmt"
	"strings"
)

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation    ErrorCode = "VALIDATION_ERROR"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrInvariant     ErrorCode = "INVARIANT_VIOLATION"
	ErrUnsettled     ErrorCode = "UNSETTLED"
	ErrUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrUnavailable   ErrorCode = "UNAVAILABLE"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the groupsched API.
type APIError struct {
	Code        ErrorCode    `json:"code"`
	Message     string       `json:"message"`
	Details     []FieldError `json:"details,omitempty"`
	Diagnostics any          `json:"diagnostics,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// ConfigError reports a malformed scenario: clock bounds, durations, or
// group membership. A simulation never starts with one.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// EmptyGroupError is returned when a group is declared without members.
type EmptyGroupError struct {
	Group string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %q has no members", e.Group)
}

// ArgumentError is returned when an operation receives an argument it
// cannot act on.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// InvariantViolation is the fatal error raised when grouped tasks are left
// WAITING after a reconciliation pass. It carries the full registry and
// group state at the moment the loop halted.
type InvariantViolation struct {
	Tick     float64         `json:"tick"`
	Stuck    []TaskID        `json:"stuck"`
	Registry []Entry         `json:"registry"`
	Groups   []GroupSnapshot `json:"groups"`
}

func (e *InvariantViolation) Error() string {
	ids := make([]string, len(e.Stuck))
	for i, id := range e.Stuck {
		ids[i] = string(id)
	}
	return fmt.Sprintf("invariant violation at t=%g: tasks left unscheduled: %s", e.Tick, strings.Join(ids, ", "))
}

// SettleError is returned when reconciliation at a single instant keeps
// finding finished tasks past the pass limit. Validated scenarios never
// reach it, so it marks a scheduler defect rather than bad input.
type SettleError struct {
	Tick     float64         `json:"tick"`
	Passes   int             `json:"passes"`
	Registry []Entry         `json:"registry"`
	Groups   []GroupSnapshot `json:"groups"`
}

func (e *SettleError) Error() string {
	return fmt.Sprintf("t=%g: %d reconciliation passes without reaching a steady state", e.Tick, e.Passes)
}
