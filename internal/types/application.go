// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ApplicationStatus is the status written back to the application record
type ApplicationStatus string

// Application statuses set by the assessment flow
const (
	ApplicationStatusUnderReview ApplicationStatus = "Under Review"
	ApplicationStatusRejected    ApplicationStatus = "Rejected"
)

// Application is the candidate's application record as seen by the assessment flow
type Application struct {
	ID               uuid.UUID         `json:"id"`
	JobID            uuid.UUID         `json:"job_id"`
	ATSScore         int               `json:"ats_score"`
	CandidateProfile json.RawMessage   `json:"candidate_profile,omitempty"`
	Status           ApplicationStatus `json:"status,omitempty"`
	AssessmentScore  *int              `json:"assessment_score,omitempty"`
}
