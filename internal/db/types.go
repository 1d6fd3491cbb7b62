package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/types"
)

// ApplicationStatusSubmitted is the status of an application before its assessment ends
const ApplicationStatusSubmitted types.ApplicationStatus = "Submitted"

// jobConfigRow is a job_assessment_configs row before the distribution is parsed
type jobConfigRow struct {
	JobID                 uuid.UUID
	TypingEnabled         bool
	MinimumWPM            int
	MinimumAccuracy       int
	TypingDurationSeconds int
	FraudDetection        bool
	FraudSensitivity      string
	TotalQuestions        int
	Distribution          []byte
	AIModel               string
	Difficulty            string
	MinimumPassingScore   int
	EvaluationStrictness  string
	ATSMinimumScore       int
}

// TypingResultRecord is a stored typing test result
type TypingResultRecord struct {
	ID            uuid.UUID              `json:"id"`
	ApplicationID uuid.UUID              `json:"application_id"`
	Result        types.TypingTestResult `json:"result"`
	CreatedAt     time.Time              `json:"created_at"`
}

// InterviewResultRecord is a stored interview with its questions, answers and scores
type InterviewResultRecord struct {
	ID            uuid.UUID              `json:"id"`
	ApplicationID uuid.UUID              `json:"application_id"`
	Questions     []types.Question       `json:"questions"`
	Answers       []types.Answer         `json:"answers"`
	Results       types.InterviewResults `json:"results"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewApplicationInput holds the fields for seeding an application
type NewApplicationInput struct {
	JobID            uuid.UUID
	ATSScore         int
	CandidateProfile []byte
}
