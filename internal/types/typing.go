// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// KeystrokeEvent is one input-change event recorded during an active typing test
type KeystrokeEvent struct {
	Key        string    `json:"key"`
	Timestamp  time.Time `json:"timestamp"`
	IntervalMs int64     `json:"interval_ms"`
	Correction bool      `json:"correction"`
}

// Typing test completion triggers
const (
	TypingCompletedByTimeout   = "timeout"
	TypingCompletedByFullText  = "completed"
	TypingCompletedBySubmitted = "submitted"
)

// TypingTestResult is the finalized outcome of a typing test. It is immutable once created.
type TypingTestResult struct {
	WPM             int      `json:"wpm"`
	Accuracy        int      `json:"accuracy"`
	CharactersTyped int      `json:"characters_typed"`
	ErrorsMade      int      `json:"errors_made"`
	CorrectionsMade int      `json:"corrections_made"`
	TimeSpent       int      `json:"time_spent"`
	Passed          bool     `json:"passed"`
	FraudScore      float64  `json:"fraud_score"`
	FraudIndicators []string `json:"fraud_indicators"`
	CompletedBy     string   `json:"completed_by,omitempty"`
}
