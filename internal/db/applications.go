package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/assessment-engine/internal/types"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

// CreateApplication inserts an application in the Submitted status and returns its ID
func (db *DB) CreateApplication(ctx context.Context, input NewApplicationInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, ats_score, candidate_profile, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		input.JobID, input.ATSScore, input.CandidateProfile, ApplicationStatusSubmitted,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

// FetchApplication retrieves an application by ID
func (db *DB) FetchApplication(ctx context.Context, applicationID uuid.UUID) (*types.Application, error) {
	var app types.Application
	var status string
	var profile []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_id, ats_score, candidate_profile, status, assessment_score
		 FROM applications WHERE id = $1`,
		applicationID,
	).Scan(&app.ID, &app.JobID, &app.ATSScore, &profile, &status, &app.AssessmentScore)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	app.Status = types.ApplicationStatus(status)
	if len(profile) > 0 {
		app.CandidateProfile = profile
	}
	return &app, nil
}

// UpdateApplicationStatus writes the assessment outcome to the application. A nil score
// clears assessment_score.
func (db *DB) UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status types.ApplicationStatus, score *int) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, assessment_score = $2, updated_at = NOW() WHERE id = $3`,
		string(status), score, applicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", applicationID)
	}
	return nil
}
