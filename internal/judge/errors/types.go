// Package errors defines the error taxonomy for external judge-service
// operations. Types classify failures into retryable transient classes
// (timeout, rate limit, network, service unavailable) and non-retryable
// classes (validation, authentication), driving the retry middleware's
// decisions.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes judge operation failures for retry classification.
type ErrorType string

const (
	// ErrorTypeTimeout indicates request timeout or deadline exceeded (retryable).
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates rate limit exceeded, retry with backoff (retryable).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNetwork indicates network connectivity issues (retryable).
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeService indicates the judge service is unavailable (retryable).
	ErrorTypeService ErrorType = "service_unavailable"

	// ErrorTypeValidation indicates the request or response failed
	// validation (non-retryable).
	ErrorTypeValidation ErrorType = "validation_failed"

	// ErrorTypeAuth indicates authentication failed (non-retryable).
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypeUnknown indicates an unclassified error (non-retryable).
	ErrorTypeUnknown ErrorType = "unknown"
)

// Common judge operation errors for consistent error handling.
var (
	// ErrServiceUnavailable indicates the judge service is down or unreachable.
	ErrServiceUnavailable = errors.New("judge service unavailable")

	// ErrRateLimitExceeded indicates a rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidResponse indicates the judge returned an unparseable response.
	ErrInvalidResponse = errors.New("invalid judge response")

	// ErrMaxRetriesExceeded indicates the retry budget is exhausted.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// ErrNoTierAvailable indicates no configured model tier responded to
	// the startup probe.
	ErrNoTierAvailable = errors.New("no judge model tier available")
)

// JudgeError captures a structured error response from a judge service.
// Includes the HTTP status, classified type, and optional Retry-After
// guidance so the retry middleware can honor server backpressure.
type JudgeError struct {
	Service    string    `json:"service"`     // Which judge: "relevance" or "quality"
	StatusCode int       `json:"status_code"` // HTTP status code, 0 for transport failures
	Message    string    `json:"message"`     // Error message
	Type       ErrorType `json:"type"`        // Classified error type
	RetryAfter int       `json:"retry_after"` // Retry-After header value in seconds
}

// Error returns the formatted judge error with status context.
func (e *JudgeError) Error() string {
	return fmt.Sprintf("%s judge error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

// IsRetryable reports whether the error class warrants a retry attempt.
func (e *JudgeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeNetwork, ErrorTypeService:
		return true
	default:
		return false
	}
}

// GetRetryAfter implements the RetryAfterProvider interface.
func (e *JudgeError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// RateLimitError provides rate-limit context for backoff calculation.
type RateLimitError struct {
	Service    string `json:"service"`
	Limit      int    `json:"limit"`       // Requests per second allowed
	RetryAfter int    `json:"retry_after"` // Seconds to wait before retry
}

// Error returns the formatted rate-limit error.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded (retry after %ds)", e.Service, e.RetryAfter)
}

// GetRetryAfter implements the RetryAfterProvider interface.
func (e *RateLimitError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}
