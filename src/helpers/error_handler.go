package helpers

import (
	"errors"
	"fmt"
	"time"

	"windfarm-observer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type WindfarmError struct {
	Message string
	Cause   error
}

func (e *WindfarmError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *WindfarmError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type InvalidRangeError struct{ WindfarmError }
type DataUnavailableError struct{ WindfarmError }
type ConfigurationError struct{ WindfarmError }
type NetworkError struct{ WindfarmError }
type DatabaseError struct{ WindfarmError }
type ValidationError struct{ WindfarmError }
type AuthenticationError struct{ WindfarmError }
type AuthorizationError struct{ WindfarmError }

// -----------------------------------------------------------------------------

// NewInvalidRange reports an unrecognized range key
func NewInvalidRange(rangeKey string) error {
	return &InvalidRangeError{WindfarmError{Message: fmt.Sprintf("unsupported range: %q", rangeKey)}}
}

// NewDataUnavailable wraps a failed plant data load
func NewDataUnavailable(cause error) error {
	return &DataUnavailableError{WindfarmError{Message: "plant data unavailable", Cause: cause}}
}

// NewValidation reports a malformed request parameter
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{WindfarmError{Message: fmt.Sprintf(format, args...)}}
}

// NewDatabase wraps a storage failure for the given operation
func NewDatabase(operation string, cause error) error {
	return &DatabaseError{WindfarmError{Message: fmt.Sprintf("%s failed", operation), Cause: cause}}
}

// NewNetwork wraps a transport failure for the given operation
func NewNetwork(operation string, cause error) error {
	return &NetworkError{WindfarmError{Message: fmt.Sprintf("%s failed", operation), Cause: cause}}
}

// NewConfiguration reports an invalid configuration value
func NewConfiguration(format string, args ...interface{}) error {
	return &ConfigurationError{WindfarmError{Message: fmt.Sprintf(format, args...)}}
}

// NewAuthentication reports missing or bad credentials
func NewAuthentication(message string) error {
	return &AuthenticationError{WindfarmError{Message: message}}
}

// NewAuthorization reports an authenticated caller lacking a role
func NewAuthorization(message string) error {
	return &AuthorizationError{WindfarmError{Message: message}}
}

// -----------------------------------------------------------------------------

func IsInvalidRange(err error) bool {
	var target *InvalidRangeError
	return errors.As(err, &target)
}

func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times with exponential backoff.
func RetryWithBackoff[T any](log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if maxRetries < 1 {
		maxRetries = 1
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, err, delay)
		}
		time.Sleep(delay)
	}

	return zero, lastErr
}
