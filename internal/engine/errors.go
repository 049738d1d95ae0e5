package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure detected while scheduling or applying.
//
// Runtime errors include:
//   - Fan-out exceeded: one update request reached too many nodes
//   - Provider failed: a stylesheet could not be loaded or decoded
//   - Persist failed: the applied theme could not be saved
//
// Runtime errors never interrupt an apply pass. The engine logs them with
// their structured fields and carries on.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Node identifies the affected node, if any.
	Node NodeID

	// Token is the pass token of the theme change, if any.
	Token string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeFanoutExceeded indicates an update walk passed the fan-out quota.
	ErrCodeFanoutExceeded RuntimeErrorCode = "FANOUT_EXCEEDED"

	// ErrCodeProviderFailed indicates the stylesheet provider returned an error.
	ErrCodeProviderFailed RuntimeErrorCode = "PROVIDER_FAILED"

	// ErrCodePersistFailed indicates the applied theme could not be saved.
	ErrCodePersistFailed RuntimeErrorCode = "PERSIST_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Token != "" {
		msg += fmt.Sprintf(" (pass=%s)", e.Token)
	} else if e.Node != 0 {
		msg += fmt.Sprintf(" (node=%d)", e.Node)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFanoutError returns true if the error is a fan-out quota error.
// Uses errors.As to handle wrapped errors.
func IsFanoutError(err error) bool {
	return hasCode(err, ErrCodeFanoutExceeded)
}

// IsProviderError returns true if the error is a stylesheet provider error.
func IsProviderError(err error) bool {
	return hasCode(err, ErrCodeProviderFailed)
}

// IsPersistError returns true if the error is a persistence error.
func IsPersistError(err error) bool {
	return hasCode(err, ErrCodePersistFailed)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewFanoutError creates a RuntimeError for an exceeded fan-out quota.
func NewFanoutError(root NodeID, visited, limit int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeFanoutExceeded,
		Message: fmt.Sprintf("update walk exceeded max fan-out (%d > %d)", visited, limit),
		Node:    root,
		Details: map[string]string{
			"visited":    fmt.Sprintf("%d", visited),
			"max_fanout": fmt.Sprintf("%d", limit),
		},
	}
}

// NewProviderError creates a RuntimeError for a failed stylesheet load.
func NewProviderError(node NodeID, sheet string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeProviderFailed,
		Message: "stylesheet load failed",
		Node:    node,
		Details: map[string]string{"sheet": sheet},
		Err:     err,
	}
}

// NewPersistError creates a RuntimeError for a failed theme save.
func NewPersistError(token, themeName string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodePersistFailed,
		Message: "saving applied theme failed",
		Token:   token,
		Details: map[string]string{"theme": themeName},
		Err:     err,
	}
}
