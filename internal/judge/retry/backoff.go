package retry

import (
	"math/rand/v2"
	"time"

	"github.com/ahrav/go-essayscore/internal/judge/configuration"
)

// ExponentialBackoff calculates the retry delay for an attempt using
// exponential growth capped at MaxInterval, with optional full jitter.
// Thread-safe via math/rand/v2. Returns zero for non-positive attempts.
func ExponentialBackoff(attempt int, cfg configuration.RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := cfg.InitialInterval
	if backoff <= 0 {
		backoff = time.Millisecond // Minimum 1ms to prevent hot looping.
	}
	for i := 1; i < attempt; i++ {
		multiplier := cfg.Multiplier
		if multiplier < 1.0 {
			multiplier = 1.0
		}
		backoff = time.Duration(float64(backoff) * multiplier)
		if backoff > cfg.MaxInterval {
			backoff = cfg.MaxInterval
			break
		}
	}

	if cfg.UseJitter {
		// Full jitter: random between 0 and the calculated backoff.
		jitterMs := rand.Int64N(backoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter is appropriate here
		return time.Duration(jitterMs) * time.Millisecond
	}
	return backoff
}
