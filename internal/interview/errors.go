package interview

import (
	"errors"
	"fmt"
)

// ErrCompleted is returned for navigation after the last question was submitted
var ErrCompleted = errors.New("interview already completed")

// GenerationError represents a failure to produce interview questions
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// EvaluationError represents a failure to evaluate an answer
type EvaluationError struct {
	QuestionID string
	Cause      error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation of %s failed: %v", e.QuestionID, e.Cause)
	}
	return fmt.Sprintf("evaluation of %s failed", e.QuestionID)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
