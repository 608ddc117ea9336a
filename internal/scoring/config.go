package scoring

import (
	"fmt"
	"time"

	"github.com/ahrav/go-essayscore/internal/analyzer"
	"github.com/ahrav/go-essayscore/internal/criteria"
	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/internal/offtopic"
)

// DefaultCallTimeout bounds each external signal call. Each of the three
// fan-out calls carries its own independent timeout.
const DefaultCallTimeout = 12 * time.Second

// Config is the full tunable surface of the scoring pipeline. Every
// field has a documented default; a zero Config is repaired to the
// defaults by DefaultConfig-style fallbacks inside Validate callers,
// never silently mid-request.
type Config struct {
	// Weights are the final-scorer criterion weights. Must sum to 1.0.
	Weights domain.CriterionWeights `json:"weights"`

	// OffTopic holds the fusion weights and severity thresholds.
	OffTopic offtopic.Config `json:"off_topic"`

	// SeverityMultipliers maps off-topic severity to the task-response
	// multiplier.
	SeverityMultipliers criteria.SeverityMultipliers `json:"severity_multipliers"`

	// FallbackBounds are the word-count bounds used when the prompt
	// states no constraints.
	FallbackBounds domain.WordCountBounds `json:"fallback_bounds"`

	// Bands maps the 0-10 score to a CEFR band.
	Bands domain.BandTable `json:"-"`

	// CallTimeout bounds each external signal call independently.
	CallTimeout time.Duration `json:"call_timeout"`

	// EnableRegression turns on the independent sequence-regression
	// score. Requires a regression scorer collaborator.
	EnableRegression bool `json:"enable_regression"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Weights:             domain.DefaultCriterionWeights(),
		OffTopic:            offtopic.DefaultConfig(),
		SeverityMultipliers: criteria.DefaultSeverityMultipliers(),
		FallbackBounds:      analyzer.DefaultBounds(),
		Bands:               domain.DefaultBandTable(),
		CallTimeout:         DefaultCallTimeout,
	}
}

// Validate fails fast on malformed configuration. Called once at
// pipeline construction; scoring requests never re-validate.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("criterion weights: %w", err)
	}
	if err := c.OffTopic.Validate(); err != nil {
		return err
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %s", c.CallTimeout)
	}
	b := c.FallbackBounds
	if b.Minimum <= 0 || b.Target < b.Minimum || b.Maximum < b.Target {
		return fmt.Errorf("fallback bounds must satisfy 0 < minimum <= target <= maximum, got %d/%d/%d",
			b.Minimum, b.Target, b.Maximum)
	}
	return nil
}
