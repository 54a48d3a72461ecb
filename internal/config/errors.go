package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrConfigNotFound indicates an explicitly requested config file does not exist
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates a config file could not be decoded
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidValue indicates a decoded config field holds an unusable value
	ErrInvalidValue = errors.New("invalid config value")
)

// NotFoundError represents a missing config file
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file %s does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(path string) error {
	return &NotFoundError{Path: path}
}

// DecodeError represents a config file that is not valid YAML or JSON
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode config %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the decoder's error.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// NewDecodeError creates a new decode error
func NewDecodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}

// InvalidValueError represents a field with an unusable value
type InvalidValueError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Field, e.Reason)
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidValue
}

// NewInvalidValueError creates a new invalid value error
func NewInvalidValueError(field string, value any, reason string) error {
	return &InvalidValueError{Field: field, Value: value, Reason: reason}
}
