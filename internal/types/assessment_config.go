// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Category is one of the fixed interview question categories
type Category string

// Interview question categories
const (
	CategoryCoding         Category = "coding"
	CategoryDSA            Category = "dsa"
	CategoryEducation      Category = "education"
	CategoryAchievements   Category = "achievements"
	CategoryProblemSolving Category = "problem_solving"
)

// Categories lists every category in allocation order.
var Categories = []Category{
	CategoryCoding,
	CategoryDSA,
	CategoryEducation,
	CategoryAchievements,
	CategoryProblemSolving,
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Distribution maps each category to the percentage of interview questions drawn from it
type Distribution map[Category]int

// DefaultDistribution returns the 30/25/15/15/15 split used when no valid distribution is configured.
func DefaultDistribution() Distribution {
	return Distribution{
		CategoryCoding:         30,
		CategoryDSA:            25,
		CategoryEducation:      15,
		CategoryAchievements:   15,
		CategoryProblemSolving: 15,
	}
}

// Total returns the sum of all category percentages
func (d Distribution) Total() int {
	total := 0
	for _, pct := range d {
		total += pct
	}
	return total
}

// Difficulty levels for generated questions
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Evaluation strictness levels
const (
	StrictnessLenient  = "lenient"
	StrictnessModerate = "moderate"
	StrictnessStrict   = "strict"
)

// Fraud sensitivity levels
const (
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

// JobAssessmentConfig is the per-job assessment configuration. It is immutable for a session.
type JobAssessmentConfig struct {
	TypingEnabled         bool   `json:"typing_enabled"`
	MinimumWPM            int    `json:"minimum_wpm" validate:"gte=0"`
	MinimumAccuracy       int    `json:"minimum_accuracy" validate:"gte=0,lte=100"`
	TypingDurationSeconds int    `json:"typing_duration_seconds" validate:"gte=0"`
	FraudDetection        bool   `json:"fraud_detection"`
	FraudSensitivity      string `json:"fraud_sensitivity" validate:"omitempty,oneof=low medium high"`

	TotalQuestions       int          `json:"total_questions" validate:"gte=0,lte=100"`
	Distribution         Distribution `json:"question_distribution"`
	AIModel              string       `json:"ai_model,omitempty"`
	Difficulty           string       `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	MinimumPassingScore  int          `json:"minimum_passing_score" validate:"gte=0,lte=100"`
	EvaluationStrictness string       `json:"evaluation_strictness" validate:"omitempty,oneof=lenient moderate strict"`

	ATSMinimumScore int `json:"ats_minimum_score" validate:"gte=0,lte=100"`
}

// Validate validates the JobAssessmentConfig using the validator.
func (c *JobAssessmentConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
