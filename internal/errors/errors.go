// Package errors defines the coded error type surfaced at the loom CLI
// boundary. Codes are stable strings so scripts wrapping loom can branch on
// them, and each error can carry suggested fixes shown to the user.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigInvalid indicates .loom/config.json is missing or malformed
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ManifestInvalid indicates SCAFFOLDS.toml failed to load or validate
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// TemplateInvalid indicates a template failed to load or render
	TemplateInvalid ErrorCode = "TEMPLATE_INVALID"
	// ScaffoldNotFound indicates a named scaffold has no manifest entry
	ScaffoldNotFound ErrorCode = "SCAFFOLD_NOT_FOUND"
	// DriftDetected indicates verify found stale or hand-edited artifacts
	DriftDetected ErrorCode = "DRIFT_DETECTED"
	// LedgerUnavailable indicates the generation ledger could not be opened
	LedgerUnavailable ErrorCode = "LEDGER_UNAVAILABLE"
	// NotInitialized indicates no .loom directory was found
	NotInitialized ErrorCode = "NOT_INITIALIZED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file by hand
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
}

// LoomError represents a loom error with code, message, and suggestions
type LoomError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new LoomError
func New(code ErrorCode, message string, cause error, fixes ...FixAction) *LoomError {
	return &LoomError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Error implements the error interface
func (e *LoomError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *LoomError) Unwrap() error {
	return e.cause
}

// CodeOf returns the error code carried by err, or InternalError when err is
// not a LoomError.
func CodeOf(err error) ErrorCode {
	var le *LoomError
	if errors.As(err, &le) {
		return le.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var le *LoomError
	return errors.As(err, &le) && le.Code == code
}
