package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RetryAfterProvider is implemented by error types that carry a
// server-specified duration to wait before the next attempt.
type RetryAfterProvider interface {
	// GetRetryAfter returns the recommended wait before retrying, or
	// zero when no guidance is available.
	GetRetryAfter() time.Duration
}

// ClassifyStatus maps an HTTP status code to an error type.
func ClassifyStatus(status int) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrorTypeValidation
	case status >= http.StatusInternalServerError:
		return ErrorTypeService
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable reports whether an error belongs to the transient class
// that the retry middleware may re-attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	var judgeErr *JudgeError
	if errors.As(err, &judgeErr) {
		return judgeErr.IsRetryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if IsNetworkError(err) {
		return true
	}

	// Unknown errors are not retried.
	return false
}

// IsNetworkError detects network-level failures by type assertion with a
// string-pattern fallback for errors that lose their type through
// wrapping.
func IsNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var netErr net.Error
		if errors.As(urlErr.Err, &netErr) {
			return netErr.Timeout()
		}
		return containsNetworkIndicator(urlErr.Err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return containsNetworkIndicator(err.Error())
}

func containsNetworkIndicator(errStr string) bool {
	lowered := strings.ToLower(errStr)
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}
