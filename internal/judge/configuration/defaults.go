package configuration

import "time"

// Call timeout constants.
const (
	// DefaultCallTimeout bounds each external judge call.
	DefaultCallTimeout = 12 * time.Second
)

// Retry constants.
const (
	DefaultMaxAttempts       = 3
	DefaultInitialInterval   = 250 * time.Millisecond
	DefaultMaxInterval       = 5 * time.Second
	DefaultMaxElapsedTime    = 45 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Rate limiting constants.
const (
	DefaultRequestsPerSecond = 10
	DefaultBurstSize         = 20
)

// Cache constants.
const (
	DefaultCacheTTL = 1 * time.Hour
)

// DefaultConfig returns production-ready configuration with sensible
// defaults for the given endpoint and model tiers. Caching is disabled
// by default; callers with a Redis deployment opt in.
func DefaultConfig(endpoint string, tiers ...ModelTier) *Config {
	return &Config{
		Endpoint:    endpoint,
		ModelTiers:  tiers,
		CallTimeout: DefaultCallTimeout,
		Retry: RetryConfig{
			MaxAttempts:     DefaultMaxAttempts,
			InitialInterval: DefaultInitialInterval,
			MaxInterval:     DefaultMaxInterval,
			MaxElapsedTime:  DefaultMaxElapsedTime,
			Multiplier:      DefaultBackoffMultiplier,
			UseJitter:       true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: DefaultRequestsPerSecond,
			BurstSize:         DefaultBurstSize,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     DefaultCacheTTL,
		},
	}
}
