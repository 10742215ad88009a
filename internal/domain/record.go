package domain

import (
	"errors"
	"fmt"
	"time"
)

// WindowDuration is the default length of a budget window.
const WindowDuration = 5 * time.Hour

// ErrInvalidRecord marks a persisted record that cannot be trusted.
var ErrInvalidRecord = errors.New("invalid usage record")

type Provenance string

const (
	ProvenanceManual    Provenance = "manual"
	ProvenanceEstimated Provenance = "estimated"
)

// UsageRecord is the persisted state of one budget window.
type UsageRecord struct {
	InputTokens      int       `json:"input"`
	OutputTokens     int       `json:"output"`
	TotalTokens      int       `json:"total"`
	WindowStart      time.Time `json:"start_time"`
	WindowEnd        time.Time `json:"reset_time"` // WindowStart + window, never moved
	LastUpdated      time.Time `json:"last_updated"`
	ManualUpdates    int       `json:"manual_updates"`
	EstimatedUpdates int       `json:"estimated_sessions"`
	ForcedModel      Model     `json:"forced_model,omitempty"`
}

// NewRecord starts an empty window at now.
func NewRecord(now time.Time, window time.Duration) UsageRecord {
	if window <= 0 {
		window = WindowDuration
	}
	return UsageRecord{
		WindowStart: now,
		WindowEnd:   now.Add(window),
		LastUpdated: now,
	}
}

// Add applies one increment and keeps TotalTokens in sync.
func (r *UsageRecord) Add(input, output int, p Provenance, now time.Time) {
	r.InputTokens += input
	r.OutputTokens += output
	r.TotalTokens = r.InputTokens + r.OutputTokens
	r.LastUpdated = now
	if p == ProvenanceEstimated {
		r.EstimatedUpdates++
	} else {
		r.ManualUpdates++
	}
}

// Expired reports whether the window has rolled over.
func (r UsageRecord) Expired(now time.Time) bool {
	return !now.Before(r.WindowEnd)
}

// Updates is the number of mutations regardless of provenance.
func (r UsageRecord) Updates() int {
	return r.ManualUpdates + r.EstimatedUpdates
}

// Remaining returns the time left in the window, never negative.
func (r UsageRecord) Remaining(now time.Time) time.Duration {
	d := r.WindowEnd.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Validate checks the fields a loaded record must carry.
func (r UsageRecord) Validate() error {
	switch {
	case r.WindowStart.IsZero() || r.WindowEnd.IsZero():
		return fmt.Errorf("%w: missing window bounds", ErrInvalidRecord)
	case !r.WindowEnd.After(r.WindowStart):
		return fmt.Errorf("%w: window ends before it starts", ErrInvalidRecord)
	case r.InputTokens < 0 || r.OutputTokens < 0:
		return fmt.Errorf("%w: negative token counts", ErrInvalidRecord)
	case r.ManualUpdates < 0 || r.EstimatedUpdates < 0:
		return fmt.Errorf("%w: negative update counters", ErrInvalidRecord)
	}
	if r.ForcedModel != "" && !r.ForcedModel.Valid() {
		return fmt.Errorf("%w: unknown forced model %q", ErrInvalidRecord, r.ForcedModel)
	}
	return nil
}
