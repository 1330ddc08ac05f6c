package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrUnsupportedSymbol indicates a symbol with no oracle mapping
	ErrUnsupportedSymbol = errors.New("unsupported symbol")

	// ErrConfigMissing indicates a required runtime setting is absent
	ErrConfigMissing = errors.New("configuration missing")

	// ErrConfigInvalid indicates a runtime setting could not be parsed
	ErrConfigInvalid = errors.New("configuration invalid")

	// ErrUpstream indicates an external dependency returned a failure
	ErrUpstream = errors.New("upstream request failed")

	// ErrPersistence indicates a store read or write failure
	ErrPersistence = errors.New("persistence failure")

	// ErrLevelCountMismatch indicates two snapshots cannot be diffed pairwise
	ErrLevelCountMismatch = errors.New("level count mismatch between snapshots")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
