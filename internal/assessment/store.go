// Package assessment sequences the ATS gate, typing test and AI interview for one
// candidate and reports the overall outcome.
package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/types"
)

// Store is the results store consumed by the coordinator. Fetches return (nil, nil)
// when the record does not exist.
type Store interface {
	FetchJobConfig(ctx context.Context, jobID uuid.UUID) (*types.JobAssessmentConfig, error)
	FetchApplication(ctx context.Context, applicationID uuid.UUID) (*types.Application, error)
	PersistTypingResult(ctx context.Context, applicationID uuid.UUID, result types.TypingTestResult) error
	PersistInterviewResult(ctx context.Context, applicationID uuid.UUID, record InterviewRecord) error
	UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status types.ApplicationStatus, score *int) error
}

// InterviewRecord is everything persisted for a finished interview
type InterviewRecord struct {
	Questions []types.Question       `json:"questions"`
	Answers   []types.Answer         `json:"answers"`
	Results   types.InterviewResults `json:"results"`
}

// View is the screen the presentation layer should show
type View string

// Views
const (
	ViewOverview  View = "overview"
	ViewTyping    View = "typing-test"
	ViewInterview View = "ai-interview"
	ViewResults   View = "results"
)

// Outcome is the final result of an assessment
type Outcome struct {
	Passed bool `json:"passed"`

	// FailedPhase is the phase that ended the flow, empty when the interview passed
	FailedPhase types.PhaseID           `json:"failed_phase,omitempty"`
	Status      types.ApplicationStatus `json:"status,omitempty"`
	Score       *int                    `json:"score,omitempty"`

	ATS       types.ATSCheckResult    `json:"ats"`
	Typing    *types.TypingTestResult `json:"typing,omitempty"`
	Interview *types.InterviewResults `json:"interview,omitempty"`
}
