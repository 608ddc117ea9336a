// Package ratelimit provides local token-bucket rate limiting for judge
// calls, one bucket per operation, protecting the external services from
// burst overload. Exceeded limits surface as retryable RateLimitErrors
// carrying a computed retry delay.
package ratelimit

import (
	"context"
	"math"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-essayscore/internal/judge/configuration"
	judgeerrors "github.com/ahrav/go-essayscore/internal/judge/errors"
	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

type rateLimitMiddleware struct {
	cfg      configuration.RateLimitConfig
	mu       sync.Mutex
	limiters map[transport.Operation]*rate.Limiter
}

// NewMiddleware creates rate-limit middleware with per-operation token
// buckets. When the configuration disables limiting, the middleware is a
// pass-through.
func NewMiddleware(cfg configuration.RateLimitConfig) transport.Middleware {
	rl := &rateLimitMiddleware{
		cfg:      cfg,
		limiters: make(map[transport.Operation]*rate.Limiter),
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			if !rl.cfg.Enabled {
				return next.Handle(ctx, req)
			}
			if err := rl.allow(req.Operation); err != nil {
				return nil, err
			}
			return next.Handle(ctx, req)
		})
	}
}

// allow consumes a token from the operation's bucket, or returns a
// RateLimitError with a retry delay computed without consuming capacity.
func (r *rateLimitMiddleware) allow(op transport.Operation) error {
	limiter := r.limiterFor(op)

	if !limiter.Allow() {
		// Calculate the retry delay without consuming a token to avoid
		// leaking bucket capacity on rejected requests.
		reservation := limiter.Reserve()
		delay := reservation.Delay()
		reservation.Cancel()

		retryAfter := int(math.Ceil(delay.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		return &judgeerrors.RateLimitError{
			Service:    string(op),
			Limit:      int(r.cfg.RequestsPerSecond),
			RetryAfter: retryAfter,
		}
	}
	return nil
}

func (r *rateLimitMiddleware) limiterFor(op transport.Operation) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.limiters[op]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RequestsPerSecond), r.cfg.BurstSize)
		r.limiters[op] = limiter
	}
	return limiter
}
