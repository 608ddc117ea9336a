// Package retry provides the retry middleware for judge-service calls:
// bounded attempts with exponential backoff, full jitter, and respect
// for server Retry-After guidance. Only the transient failure class is
// retried; validation and authentication failures return immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-essayscore/internal/judge/configuration"
	judgeerrors "github.com/ahrav/go-essayscore/internal/judge/errors"
	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

var (
	errContextCancelledBeforeRetry = errors.New("context cancelled before retry")
	errContextCancelledDuringRetry = errors.New("context cancelled during retry")
)

type retryMiddleware struct {
	config configuration.RetryConfig
	logger *slog.Logger
}

// NewMiddleware creates retry middleware with the given configuration.
// Configuration is validated here so a malformed retry policy fails at
// client construction, never at scoring time.
func NewMiddleware(cfg configuration.RetryConfig) (transport.Middleware, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rm := &retryMiddleware{
		config: cfg,
		logger: slog.Default().With("component", "retry"),
	}
	return rm.middleware(), nil
}

func (r *retryMiddleware) middleware() transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			// Fail fast if the caller already cancelled.
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", errContextCancelledBeforeRetry, ctx.Err())
			default:
			}

			var lastErr error
			start := time.Now()

			for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
				if r.config.MaxElapsedTime > 0 && time.Since(start) > r.config.MaxElapsedTime {
					r.logger.Warn("max elapsed time exceeded",
						"elapsed", time.Since(start),
						"attempts", attempt-1,
						"operation", req.Operation,
						"last_error", lastErr)
					break
				}

				resp, err := next.Handle(ctx, req)
				if err == nil {
					if attempt > 1 {
						r.logger.Info("request succeeded after retry",
							"attempt", attempt,
							"operation", req.Operation,
							"model", req.Model)
					}
					return resp, nil
				}

				if !judgeerrors.IsRetryable(err) {
					r.logger.Debug("non-retryable error",
						"error", err,
						"attempt", attempt,
						"operation", req.Operation)
					return nil, err
				}

				lastErr = err
				if attempt == r.config.MaxAttempts {
					break
				}

				backoff := r.backoffFor(attempt, err)
				if r.config.MaxElapsedTime > 0 && time.Since(start)+backoff > r.config.MaxElapsedTime {
					r.logger.Warn("backoff would exceed elapsed budget",
						"elapsed", time.Since(start),
						"backoff", backoff,
						"operation", req.Operation)
					break
				}

				r.logger.Debug("retrying after backoff",
					"attempt", attempt,
					"backoff", backoff,
					"error", err,
					"operation", req.Operation)

				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, fmt.Errorf("%w: %w", errContextCancelledDuringRetry, ctx.Err())
				}
			}

			return nil, fmt.Errorf("%w after %d attempts: %w",
				judgeerrors.ErrMaxRetriesExceeded, r.config.MaxAttempts, lastErr)
		})
	}
}

// backoffFor computes the wait before the next attempt, preferring the
// server's Retry-After guidance over local exponential backoff.
func (r *retryMiddleware) backoffFor(attempt int, err error) time.Duration {
	var provider judgeerrors.RetryAfterProvider
	if errors.As(err, &provider) {
		if after := provider.GetRetryAfter(); after > 0 {
			return after
		}
	}
	return ExponentialBackoff(attempt, r.config)
}
