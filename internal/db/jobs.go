package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/types"
)

// -----------------------------------------------------------------------------
// Job Assessment Config Methods
// -----------------------------------------------------------------------------

// FetchJobConfig retrieves the assessment configuration of a job. A malformed
// question_distribution falls back to the default split.
func (db *DB) FetchJobConfig(ctx context.Context, jobID uuid.UUID) (*types.JobAssessmentConfig, error) {
	var row jobConfigRow
	err := db.pool.QueryRow(ctx,
		`SELECT job_id, typing_enabled, minimum_wpm, minimum_accuracy, typing_duration_seconds,
		        fraud_detection, fraud_sensitivity, total_questions, question_distribution,
		        ai_model, difficulty, minimum_passing_score, evaluation_strictness, ats_minimum_score
		 FROM job_assessment_configs WHERE job_id = $1`,
		jobID,
	).Scan(&row.JobID, &row.TypingEnabled, &row.MinimumWPM, &row.MinimumAccuracy, &row.TypingDurationSeconds,
		&row.FraudDetection, &row.FraudSensitivity, &row.TotalQuestions, &row.Distribution,
		&row.AIModel, &row.Difficulty, &row.MinimumPassingScore, &row.EvaluationStrictness, &row.ATSMinimumScore)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job assessment config: %w", err)
	}

	cfg := row.toConfig()
	return &cfg, nil
}

// SaveJobConfig creates or replaces the assessment configuration of a job
func (db *DB) SaveJobConfig(ctx context.Context, jobID uuid.UUID, cfg types.JobAssessmentConfig) error {
	var distribution []byte
	if len(cfg.Distribution) > 0 {
		var err error
		distribution, err = json.Marshal(cfg.Distribution)
		if err != nil {
			return fmt.Errorf("failed to marshal question distribution: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_assessment_configs (job_id, typing_enabled, minimum_wpm, minimum_accuracy,
		     typing_duration_seconds, fraud_detection, fraud_sensitivity, total_questions,
		     question_distribution, ai_model, difficulty, minimum_passing_score,
		     evaluation_strictness, ats_minimum_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (job_id) DO UPDATE SET
		     typing_enabled = $2, minimum_wpm = $3, minimum_accuracy = $4,
		     typing_duration_seconds = $5, fraud_detection = $6, fraud_sensitivity = $7,
		     total_questions = $8, question_distribution = $9, ai_model = $10, difficulty = $11,
		     minimum_passing_score = $12, evaluation_strictness = $13, ats_minimum_score = $14,
		     updated_at = NOW()`,
		jobID, cfg.TypingEnabled, cfg.MinimumWPM, cfg.MinimumAccuracy,
		cfg.TypingDurationSeconds, cfg.FraudDetection, cfg.FraudSensitivity, cfg.TotalQuestions,
		distribution, cfg.AIModel, cfg.Difficulty, cfg.MinimumPassingScore,
		cfg.EvaluationStrictness, cfg.ATSMinimumScore,
	)
	if err != nil {
		return fmt.Errorf("failed to save job assessment config: %w", err)
	}
	return nil
}

func (r jobConfigRow) toConfig() types.JobAssessmentConfig {
	return types.JobAssessmentConfig{
		TypingEnabled:         r.TypingEnabled,
		MinimumWPM:            r.MinimumWPM,
		MinimumAccuracy:       r.MinimumAccuracy,
		TypingDurationSeconds: r.TypingDurationSeconds,
		FraudDetection:        r.FraudDetection,
		FraudSensitivity:      r.FraudSensitivity,
		TotalQuestions:        r.TotalQuestions,
		Distribution:          config.ParseDistribution(r.Distribution),
		AIModel:               r.AIModel,
		Difficulty:            r.Difficulty,
		MinimumPassingScore:   r.MinimumPassingScore,
		EvaluationStrictness:  r.EvaluationStrictness,
		ATSMinimumScore:       r.ATSMinimumScore,
	}
}
