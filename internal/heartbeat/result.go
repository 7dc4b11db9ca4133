// Package heartbeat implements the heartbeat execution engine: checklist to
// prompt to agent reply to classified, logged, optionally forwarded result.
package heartbeat

import (
	"time"
)

// Kind is the classified outcome of one heartbeat.
type Kind string

const (
	KindOK           Kind = "ok"
	KindAlert        Kind = "alert"
	KindSkippedEmpty Kind = "skipped_empty"
	KindAgentError   Kind = "agent_error"
	KindTimeout      Kind = "timeout"
)

// Healthy reports whether the kind counts as a clean run for exit-code
// purposes (single-shot mode exits 0 for these).
func (k Kind) Healthy() bool {
	return k == KindOK || k == KindSkippedEmpty
}

// Result is the classified outcome of one heartbeat. Created once by the
// classifier (or short-circuited for an empty checklist), then handed to the
// journal and notifier unchanged.
type Result struct {
	BeatID    string
	Timestamp time.Time
	Kind      Kind
	Summary   string
	Output    string
	Error     string
	Preset    string
	Duration  time.Duration
}

// icon returns the terminal status glyph for a kind.
func (k Kind) icon() string {
	switch k {
	case KindOK:
		return "✓"
	case KindAlert:
		return "⚠"
	case KindAgentError, KindTimeout:
		return "✗"
	case KindSkippedEmpty:
		return "○"
	}
	return "?"
}
