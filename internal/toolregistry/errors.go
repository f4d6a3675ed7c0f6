package toolregistry

import (
	"errors"
	"fmt"
)

// ErrKind categorizes a dispatch failure for audit-severity mapping:
// success -> info, handler failure -> error, block -> critical (assigned
// by the policy engine, not here), timeout -> warning.
type ErrKind string

const (
	ErrKindNotFound   ErrKind = "not_found"
	ErrKindValidation ErrKind = "validation"
	ErrKindTimeout    ErrKind = "timeout"
	ErrKindPanic      ErrKind = "panic"
	ErrKindHandler    ErrKind = "handler"
)

// ToolError wraps a dispatch failure with its tool name and kind.
type ToolError struct {
	ToolName string
	Kind     ErrKind
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s: %v", e.ToolName, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError constructs a ToolError of the given kind.
func NewToolError(toolName string, kind ErrKind, err error) *ToolError {
	return &ToolError{ToolName: toolName, Kind: kind, Err: err}
}

// AsToolError unwraps err into a *ToolError if possible.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsRetryable reports whether a retry of the dispatch might succeed.
// Only timeouts are considered retryable; handler, validation, and
// not-found failures are not.
func IsRetryable(err error) bool {
	te, ok := AsToolError(err)
	if !ok {
		return false
	}
	return te.Kind == ErrKindTimeout
}
