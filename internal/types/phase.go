// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// PhaseID identifies an assessment phase
type PhaseID string

// Assessment phases, in the order they run
const (
	PhaseATSCheck    PhaseID = "ats-check"
	PhaseTypingTest  PhaseID = "typing-test"
	PhaseAIInterview PhaseID = "ai-interview"
)

// PhaseStatus is the lifecycle state of a single phase
type PhaseStatus string

// Phase statuses
const (
	PhaseStatusPending   PhaseStatus = "pending"
	PhaseStatusActive    PhaseStatus = "active"
	PhaseStatusCompleted PhaseStatus = "completed"
	PhaseStatusFailed    PhaseStatus = "failed"
	PhaseStatusSkipped   PhaseStatus = "skipped"
)

// Terminal reports whether the phase can no longer change
func (s PhaseStatus) Terminal() bool {
	return s == PhaseStatusCompleted || s == PhaseStatusFailed || s == PhaseStatusSkipped
}

// PhaseRecord tracks one phase of an assessment. Results is set once, when the phase
// leaves pending/active.
type PhaseRecord struct {
	ID       PhaseID         `json:"id"`
	Status   PhaseStatus     `json:"status"`
	Required bool            `json:"required"`
	Results  json.RawMessage `json:"results,omitempty"`
}

// ATSCheckResult is the results payload of the ATS gate
type ATSCheckResult struct {
	Score        int  `json:"score"`
	MinimumScore int  `json:"minimum_score"`
	Passed       bool `json:"passed"`
}
