package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/assessment-engine/internal/assessment"
	"github.com/jonathan/assessment-engine/internal/types"
)

// -----------------------------------------------------------------------------
// Assessment Result Methods
// -----------------------------------------------------------------------------

// PersistTypingResult stores a finalized typing test result
func (db *DB) PersistTypingResult(ctx context.Context, applicationID uuid.UUID, result types.TypingTestResult) error {
	indicators, err := json.Marshal(nonNil(result.FraudIndicators))
	if err != nil {
		return fmt.Errorf("failed to marshal fraud indicators: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO typing_results (application_id, wpm, accuracy, characters_typed, errors_made,
		     corrections_made, time_spent, passed, fraud_score, fraud_indicators, completed_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		applicationID, result.WPM, result.Accuracy, result.CharactersTyped, result.ErrorsMade,
		result.CorrectionsMade, result.TimeSpent, result.Passed, result.FraudScore, indicators, result.CompletedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save typing result: %w", err)
	}
	return nil
}

// PersistInterviewResult stores the interview questions, answers and aggregated scores
func (db *DB) PersistInterviewResult(ctx context.Context, applicationID uuid.UUID, record assessment.InterviewRecord) error {
	questions, err := json.Marshal(nonNil(record.Questions))
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	answers, err := json.Marshal(nonNil(record.Answers))
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	results, err := json.Marshal(record.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal interview results: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interview_results (application_id, questions, answers, results, percentage_score, passed)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		applicationID, questions, answers, results, record.Results.PercentageScore, record.Results.Passed,
	)
	if err != nil {
		return fmt.Errorf("failed to save interview result: %w", err)
	}
	return nil
}

// ListTypingResults retrieves every typing result of an application, oldest first
func (db *DB) ListTypingResults(ctx context.Context, applicationID uuid.UUID) ([]TypingResultRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, wpm, accuracy, characters_typed, errors_made, corrections_made,
		        time_spent, passed, fraud_score, fraud_indicators, completed_by, created_at
		 FROM typing_results WHERE application_id = $1 ORDER BY created_at ASC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list typing results: %w", err)
	}
	defer rows.Close()

	var records []TypingResultRecord
	for rows.Next() {
		var rec TypingResultRecord
		var indicators []byte
		r := &rec.Result
		if err := rows.Scan(&rec.ID, &rec.ApplicationID, &r.WPM, &r.Accuracy, &r.CharactersTyped, &r.ErrorsMade,
			&r.CorrectionsMade, &r.TimeSpent, &r.Passed, &r.FraudScore, &indicators, &r.CompletedBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan typing result: %w", err)
		}
		r.FraudIndicators = []string{}
		if len(indicators) > 0 {
			if err := json.Unmarshal(indicators, &r.FraudIndicators); err != nil {
				return nil, fmt.Errorf("failed to unmarshal fraud indicators: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate typing results: %w", err)
	}
	return records, nil
}

// LatestInterviewResult retrieves the most recent interview of an application
func (db *DB) LatestInterviewResult(ctx context.Context, applicationID uuid.UUID) (*InterviewResultRecord, error) {
	var rec InterviewResultRecord
	var questions, answers, results []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, application_id, questions, answers, results, created_at
		 FROM interview_results WHERE application_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		applicationID,
	).Scan(&rec.ID, &rec.ApplicationID, &questions, &answers, &results, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview result: %w", err)
	}

	if err := decodeInterview(&rec, questions, answers, results); err != nil {
		return nil, err
	}
	return &rec, nil
}

func decodeInterview(rec *InterviewResultRecord, questions, answers, results []byte) error {
	if err := json.Unmarshal(questions, &rec.Questions); err != nil {
		return fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(answers, &rec.Answers); err != nil {
		return fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(results, &rec.Results); err != nil {
		return fmt.Errorf("failed to unmarshal interview results: %w", err)
	}
	return nil
}

// nonNil keeps empty lists from being stored as JSON null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
