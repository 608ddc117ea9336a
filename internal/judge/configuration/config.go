// Package configuration holds the judge client's configuration surface:
// endpoints, model tiers, timeouts, retry, rate-limit, and cache
// settings, with documented production defaults. Validation happens at
// client construction, never mid-request.
package configuration

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Configuration validation errors.
var (
	ErrNoEndpoint      = errors.New("judge endpoint is required")
	ErrNoModelTiers    = errors.New("at least one model tier is required")
	ErrInvalidRetry    = errors.New("invalid retry configuration")
	ErrInvalidTimeout  = errors.New("call timeout must be positive")
	ErrInvalidCacheTTL = errors.New("cache TTL must be positive when caching is enabled")
)

// ModelTier is one entry in the prioritized capability list. Tiers are
// probed in order at client construction and the first available one is
// used for every subsequent request.
type ModelTier struct {
	// Name identifies the model to the judge service.
	Name string `json:"name"`

	// Description is a human-readable tier label for logs.
	Description string `json:"description,omitempty"`
}

// RetryConfig controls retry behavior for failed judge operations:
// exponential backoff with full jitter, bounded attempts, and an overall
// elapsed-time budget.
type RetryConfig struct {
	MaxAttempts     int           `json:"max_attempts"`     // Maximum attempts including the first
	InitialInterval time.Duration `json:"initial_interval"` // Starting backoff duration
	MaxInterval     time.Duration `json:"max_interval"`     // Backoff ceiling
	MaxElapsedTime  time.Duration `json:"max_elapsed_time"` // Total time budget for all attempts
	Multiplier      float64       `json:"multiplier"`       // Exponential backoff multiplier
	UseJitter       bool          `json:"use_jitter"`       // Enable full jitter randomization
}

// RateLimitConfig controls the local token-bucket rate limit protecting
// the judge services.
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	BurstSize         int     `json:"burst_size"`
}

// CacheConfig controls the optional Redis-backed assessment cache.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Addr    string        `json:"addr"` // Redis address, host:port
	TTL     time.Duration `json:"ttl"`
}

// Config is the complete judge client configuration.
type Config struct {
	// Endpoint is the judge service base URL.
	Endpoint string `json:"endpoint"`

	// APIKey authenticates to the judge service. Not serialized.
	APIKey string `json:"-"`

	// ModelTiers is the prioritized capability list, best first.
	ModelTiers []ModelTier `json:"model_tiers"`

	// CallTimeout bounds each judge call.
	CallTimeout time.Duration `json:"call_timeout"`

	// HTTPClient overrides the default client; nil builds one from
	// CallTimeout.
	HTTPClient *http.Client `json:"-"`

	Retry     RetryConfig     `json:"retry"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Cache     CacheConfig     `json:"cache"`
}

// Validate checks the configuration for construction-time errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	if len(c.ModelTiers) == 0 {
		return ErrNoModelTiers
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.CallTimeout)
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCacheTTL, c.Cache.TTL)
	}
	return nil
}

// Validate checks the retry configuration's internal consistency.
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be > 0, got %d", ErrInvalidRetry, r.MaxAttempts)
	}
	if r.InitialInterval <= 0 {
		return fmt.Errorf("%w: initial interval must be > 0, got %v", ErrInvalidRetry, r.InitialInterval)
	}
	if r.MaxInterval < r.InitialInterval {
		return fmt.Errorf("%w: max interval %v < initial interval %v",
			ErrInvalidRetry, r.MaxInterval, r.InitialInterval)
	}
	if r.Multiplier < 1.0 {
		return fmt.Errorf("%w: multiplier must be >= 1.0, got %f", ErrInvalidRetry, r.Multiplier)
	}
	if r.MaxElapsedTime < 0 {
		return fmt.Errorf("%w: max elapsed time must be >= 0, got %v", ErrInvalidRetry, r.MaxElapsedTime)
	}
	return nil
}
