package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the trailbulk CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials indicates no username or password could be
	// resolved from flags, environment, or .env file
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrNoAssets indicates the asset file contained no barcodes
	ErrNoAssets = errors.New("no assets to add")
)

// ValidationError represents a single configuration validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties every validation failure to ErrInvalidConfig for errors.Is
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// MultiError aggregates multiple errors, so configuration validation can
// report every problem in one pass instead of one per run
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	}

	lines := make([]string, 0, len(m.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for _, err := range m.Errors {
		lines = append(lines, "  - "+err.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add appends err unless it is nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns the MultiError, or nil when nothing was added
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "Missing credentials. Pass --username and --password, or set TRAIL_USERNAME and TRAIL_PASSWORD (a .env file in the working directory works too)."
	case errors.Is(err, ErrNoAssets):
		return "No asset barcodes found. Check that the file has barcode numbers in its first column."
	case errors.Is(err, ErrInvalidConfig):
		return fmt.Sprintf("Invalid configuration: %v. Check your flags and config file.", err)
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}
