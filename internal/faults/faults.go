// Package faults defines the error taxonomy shared by the relay layers.
// The HTTP boundary applies a single status mapping over these types; no
// intermediate layer catches and reinterprets them.
package faults

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Validation
// =============================================================================

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidation creates a ValidationError.
func NewValidation(msg string) error {
	return &ValidationError{msg: msg}
}

// Validationf creates a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// =============================================================================
// Configuration
// =============================================================================

// ConfigurationError reports missing deployment configuration. It names the
// environment variable an operator must set.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// NewConfiguration creates a ConfigurationError for a missing field.
func NewConfiguration(field string) error {
	return &ConfigurationError{Field: field}
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

// =============================================================================
// Authorization
// =============================================================================

// UnauthorizedError reports that the signing identity lacks an on-chain role.
type UnauthorizedError struct {
	msg string
}

func (e *UnauthorizedError) Error() string { return e.msg }

// NewUnauthorized creates an UnauthorizedError.
func NewUnauthorized(msg string) error {
	return &UnauthorizedError{msg: msg}
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var u *UnauthorizedError
	return errors.As(err, &u)
}

// =============================================================================
// Chain timeout
// =============================================================================

// ChainTimeoutError reports a write call whose confirmation did not arrive
// within the configured bound. The call may still land on-chain; retrying is
// a caller decision.
type ChainTimeoutError struct {
	Op   string
	Wait time.Duration
}

func (e *ChainTimeoutError) Error() string {
	return fmt.Sprintf("%s: transaction not confirmed within %s", e.Op, e.Wait)
}

// NewChainTimeout creates a ChainTimeoutError.
func NewChainTimeout(op string, wait time.Duration) error {
	return &ChainTimeoutError{Op: op, Wait: wait}
}

// IsChainTimeout reports whether err is a ChainTimeoutError.
func IsChainTimeout(err error) bool {
	var t *ChainTimeoutError
	return errors.As(err, &t)
}

// =============================================================================
// Blob store
// =============================================================================

// StoreUnavailableError reports a transport or authentication failure against
// the pinning service.
type StoreUnavailableError struct {
	msg   string
	cause error
}

func (e *StoreUnavailableError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *StoreUnavailableError) Unwrap() error { return e.cause }

// NewStoreUnavailable creates a StoreUnavailableError wrapping cause.
func NewStoreUnavailable(msg string, cause error) error {
	return &StoreUnavailableError{msg: msg, cause: cause}
}

// IsStoreUnavailable reports whether err is a StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var s *StoreUnavailableError
	return errors.As(err, &s)
}

// NotFoundError reports an unresolvable content reference.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content not found: %s", e.Ref)
}

// NewNotFound creates a NotFoundError for a reference.
func NewNotFound(ref string) error {
	return &NotFoundError{Ref: ref}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
