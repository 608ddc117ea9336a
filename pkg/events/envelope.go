// Package events defines the observability event envelope the scoring
// pipeline emits and the sink interface downstream consumers implement.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types the scoring pipeline emits.
const (
	// TypeScoringCompleted fires after every successful scoring call,
	// degraded or not. The payload is the serialized score report.
	TypeScoringCompleted = "scoring.completed"

	// TypeScoringDegraded fires alongside TypeScoringCompleted when one
	// or more signals fell back to documented defaults.
	TypeScoringDegraded = "scoring.degraded"
)

// Envelope wraps pipeline events with the metadata consumers need for
// routing, deduplication, and correlation. The payload schema varies by
// Type and Version.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type routes the event, e.g. "scoring.completed".
	Type string `json:"type"`

	// Source names the emitting component, e.g. "scoring-pipeline".
	Source string `json:"source"`

	// Version enables payload schema evolution. Starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// ReportID correlates the event with the score report it describes.
	ReportID string `json:"report_id"`

	// Payload is the domain-specific event data.
	Payload json.RawMessage `json:"payload"`
}

// EventSink receives pipeline events with best-effort delivery. Sink
// failures must never fail the scoring call; events serve observability,
// not correctness.
type EventSink interface {
	// Append queues an event. Implementations should treat duplicates as
	// no-ops and return quickly.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event. Used in tests and when event
// emission is disabled.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink returns a sink that discards every event.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }
