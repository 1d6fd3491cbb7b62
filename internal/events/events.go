// Package events publishes assessment completion events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/schemas"
	"github.com/jonathan/assessment-engine/internal/types"
)

// CompletedEvent is emitted once an assessment's final application status is known
type CompletedEvent struct {
	AssessmentID    uuid.UUID               `json:"assessment_id"`
	ApplicationID   uuid.UUID               `json:"application_id"`
	JobID           uuid.UUID               `json:"job_id"`
	OverallPassed   bool                    `json:"overall_passed"`
	Status          types.ApplicationStatus `json:"status"`
	AssessmentScore *int                    `json:"assessment_score"`
	FailedPhase     types.PhaseID           `json:"failed_phase,omitempty"`
	CompletedAt     time.Time               `json:"completed_at"`
}

// Encode marshals the event and checks it against the completion event schema
func (e CompletedEvent) Encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion event: %w", err)
	}
	if err := schemas.Validate(schemas.CompletionEventSchema, body); err != nil {
		return nil, fmt.Errorf("completion event failed schema check: %w", err)
	}
	return body, nil
}

// Decode parses a completion event body
func Decode(body []byte) (CompletedEvent, error) {
	var e CompletedEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return CompletedEvent{}, fmt.Errorf("invalid completion event: %w", err)
	}
	return e, nil
}

// Publisher delivers completion events
type Publisher interface {
	Publish(ctx context.Context, event CompletedEvent) error
	Close() error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish validates and drops the event
func (NopPublisher) Publish(_ context.Context, event CompletedEvent) error {
	_, err := event.Encode()
	return err
}

// Close is a no-op
func (NopPublisher) Close() error {
	return nil
}
