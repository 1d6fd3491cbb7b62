// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// MaxQuestionScore is the score ceiling of every interview question
const MaxQuestionScore = 100

// Question is one generated interview question
type Question struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Category   Category `json:"category"`
	Difficulty string   `json:"difficulty"`
	TimeLimit  int      `json:"time_limit"`
	MaxScore   int      `json:"max_score"`
}

// Answer is the candidate's submission for a question
type Answer struct {
	QuestionID    string    `json:"question_id"`
	Text          string    `json:"answer"`
	TimeSpent     int       `json:"time_spent"`
	AutoSubmitted bool      `json:"auto_submitted"`
	Timestamp     time.Time `json:"timestamp"`
}

// QuestionEvaluation is the scored evaluation of a single answer
type QuestionEvaluation struct {
	QuestionID        string   `json:"question_id"`
	TechnicalAccuracy int      `json:"technical_accuracy"`
	ProblemSolving    int      `json:"problem_solving"`
	Communication     int      `json:"communication"`
	TimeManagement    int      `json:"time_management"`
	Creativity        int      `json:"creativity"`
	AIScore           int      `json:"ai_score"`
	Feedback          string   `json:"feedback"`
	Suggestions       []string `json:"suggestions"`
}

// TimeAnalysis summarizes time usage over an interview
type TimeAnalysis struct {
	TotalTimeSpent         int `json:"total_time_spent"`
	AverageTimePerQuestion int `json:"average_time_per_question"`
	QuestionsAutoSubmitted int `json:"questions_auto_submitted"`
}

// InterviewResults is the aggregated outcome of an interview
type InterviewResults struct {
	TotalScore         int                  `json:"total_score"`
	PercentageScore    int                  `json:"percentage_score"`
	QuestionsAttempted int                  `json:"questions_attempted"`
	QuestionsCompleted int                  `json:"questions_completed"`
	CategoryBreakdown  map[Category]int     `json:"category_breakdown"`
	TimeAnalysis       TimeAnalysis         `json:"time_analysis"`
	Passed             bool                 `json:"passed"`
	Recommendation     string               `json:"recommendation"`
	NextSteps          string               `json:"next_steps"`
	Evaluations        []QuestionEvaluation `json:"evaluations"`
}
