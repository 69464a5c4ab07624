package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"stock-trend/src/logger"
	"time"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StockTrendError struct {
	Message string
	Cause   error
}

func (e *StockTrendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StockTrendError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As
type ConfigurationError struct{ StockTrendError }
type NetworkError struct{ StockTrendError }
type DataSourceError struct{ StockTrendError }
type ValidationError struct{ StockTrendError }

// ErrNotFound marks a lookup the provider answered with "no such symbol".
// Sources turn it into an empty series; it is never retried.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------

func NewConfigurationError(message string, cause error) error {
	return &ConfigurationError{StockTrendError{Message: message, Cause: cause}}
}

func NewNetworkError(message string, cause error) error {
	return &NetworkError{StockTrendError{Message: message, Cause: cause}}
}

func NewDataSourceError(message string, cause error) error {
	return &DataSourceError{StockTrendError{Message: message, Cause: cause}}
}

func NewValidationError(message string, cause error) error {
	return &ValidationError{StockTrendError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------

// IsValidation reports whether err (or anything it wraps) is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// -----------------------------------------------------------------------------

// HTTPStatus maps an error onto the status code returned by the API
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		network    *NetworkError
		source     *DataSourceError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &network), errors.As(err, &source):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn once plus up to retries more times with exponential backoff.
// ErrNotFound, validation errors and context cancellation end the loop immediately.
func RetryWithBackoff[T any](ctx context.Context, retries int, baseDelay time.Duration, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		res, err := fn(attempt)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if errors.Is(err, ErrNotFound) || IsValidation(err) || ctx.Err() != nil {
			break
		}
	}

	return zero, lastErr
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.Logger.Error("Error in %s: %v", context, err)
	}
}

// -----------------------------------------------------------------------------

// Recover turns a panic in a request handler into a logged error.
// Use as: defer handler.Recover("ws command", &err)
func (e *ErrorHandler) Recover(context string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	e.Logger.Error("Panic in %s: %v\n%s", context, r, debug.Stack())
	if errp != nil {
		*errp = &StockTrendError{Message: fmt.Sprintf("internal error in %s", context), Cause: fmt.Errorf("%v", r)}
	}
}
