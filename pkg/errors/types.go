// Package errors provides typed errors for the flog project.
//
// This package defines domain-specific error types that provide structured
// error information for different subsystems (config, discovery, work log, UI).
// All error types implement the standard error interface and support
// errors.Is() and errors.As() from the standard library and cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// DiscoveryError represents a failure tied to a single filesystem entry or
// repository during branch discovery.
type DiscoveryError struct {
	Path      string // Entry or repository path
	Operation string // e.g., "list", "classify", "open", "branches"
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("discovery %s %s failed: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("discovery %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// NewDiscoveryError creates a new DiscoveryError.
func NewDiscoveryError(operation, path, message string) *DiscoveryError {
	return &DiscoveryError{Operation: operation, Path: path, Message: message}
}

// NewDiscoveryErrorWithCause creates a new DiscoveryError with an underlying cause.
func NewDiscoveryErrorWithCause(operation, path, message string, cause error) *DiscoveryError {
	return &DiscoveryError{Operation: operation, Path: path, Message: message, Cause: cause}
}

// LogError represents errors while building or exporting a work log.
type LogError struct {
	Step    string // e.g., "week", "hours", "export"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LogError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("work log %s failed: %s", e.Step, e.Message)
	}
	return "work log error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *LogError) Unwrap() error {
	return e.Cause
}

// NewLogError creates a new LogError.
func NewLogError(step, message string) *LogError {
	return &LogError{Step: step, Message: message}
}

// NewLogErrorWithCause creates a new LogError with an underlying cause.
func NewLogErrorWithCause(step, message string, cause error) *LogError {
	return &LogError{Step: step, Message: message, Cause: cause}
}

// UIError represents errors related to interactive prompts and selectors.
type UIError struct {
	Prompt  string // Prompt label shown to the user
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *UIError) Error() string {
	if e.Prompt != "" {
		return fmt.Sprintf("prompt %q failed: %s", e.Prompt, e.Message)
	}
	return "prompt failed: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *UIError) Unwrap() error {
	return e.Cause
}

// NewUIError creates a new UIError.
func NewUIError(prompt, message string) *UIError {
	return &UIError{Prompt: prompt, Message: message}
}

// WithCause adds an underlying cause to the UIError.
func (e *UIError) WithCause(cause error) *UIError {
	e.Cause = cause
	return e
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDiscoveryError checks if an error or any error in its chain is a DiscoveryError.
func IsDiscoveryError(err error) bool {
	var discErr *DiscoveryError
	return errors.As(err, &discErr)
}

// IsLogError checks if an error or any error in its chain is a LogError.
func IsLogError(err error) bool {
	var logErr *LogError
	return errors.As(err, &logErr)
}

// IsUIError checks if an error or any error in its chain is a UIError.
func IsUIError(err error) bool {
	var uiErr *UIError
	return errors.As(err, &uiErr)
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use flogerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
