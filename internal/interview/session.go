package interview

import (
	"math"
	"slices"
	"time"

	"github.com/jonathan/assessment-engine/internal/types"
)

// SubmitResult describes what a submission did
type SubmitResult struct {
	Answer types.Answer
	// Completed is true only for the submission that moved past the last question
	Completed bool
	// Replaced is true when an earlier answer for the same question was overwritten
	Replaced bool
}

// Session tracks navigation through an interview. It is not safe for concurrent use;
// callers serialize events.
type Session struct {
	questions []types.Question
	index     int
	started   time.Time

	answers   []types.Answer
	answerIdx map[string]int
	drafts    map[string]string

	completed bool
}

// NewSession creates a session over questions in presentation order
func NewSession(questions []types.Question) *Session {
	return &Session{
		questions: slices.Clone(questions),
		answerIdx: make(map[string]int),
		drafts:    make(map[string]string),
	}
}

// Start begins the first question's clock. An empty interview completes immediately.
func (s *Session) Start(now time.Time) bool {
	s.started = now
	if len(s.questions) == 0 {
		s.completed = true
	}
	return s.completed
}

// Questions returns the questions in presentation order
func (s *Session) Questions() []types.Question {
	return slices.Clone(s.questions)
}

// Len returns the number of questions
func (s *Session) Len() int {
	return len(s.questions)
}

// Index returns the position of the current question
func (s *Session) Index() int {
	return s.index
}

// Current returns the question being answered
func (s *Session) Current() (types.Question, bool) {
	if s.completed || s.index >= len(s.questions) {
		return types.Question{}, false
	}
	return s.questions[s.index], true
}

// Completed reports whether the candidate moved past the last question
func (s *Session) Completed() bool {
	return s.completed
}

// Draft stores in-progress text for the current question
func (s *Session) Draft(text string) error {
	q, ok := s.Current()
	if !ok {
		return ErrCompleted
	}
	s.drafts[q.ID] = text
	return nil
}

// DraftText returns the in-progress text for the current question
func (s *Session) DraftText() string {
	q, ok := s.Current()
	if !ok {
		return ""
	}
	return s.drafts[q.ID]
}

// TimeRemaining returns the time left on the current question
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	q, ok := s.Current()
	if !ok {
		return 0
	}
	limit := time.Duration(q.TimeLimit) * time.Second
	if left := limit - now.Sub(s.started); left > 0 {
		return left
	}
	return 0
}

// Submit records a manual answer for the current question and advances
func (s *Session) Submit(text string, now time.Time) (SubmitResult, error) {
	q, ok := s.Current()
	if !ok {
		return SubmitResult{}, ErrCompleted
	}
	spent := int(math.Round(now.Sub(s.started).Seconds()))
	spent = max(0, min(spent, q.TimeLimit))
	return s.record(q, text, spent, false, now), nil
}

// Timeout auto-submits the current draft with the full time limit and advances exactly
// as a manual submission would
func (s *Session) Timeout(now time.Time) (SubmitResult, error) {
	q, ok := s.Current()
	if !ok {
		return SubmitResult{}, ErrCompleted
	}
	return s.record(q, s.drafts[q.ID], q.TimeLimit, true, now), nil
}

// Back moves to the previous question, pre-filling its draft with the submitted answer.
// Returns false on the first question.
func (s *Session) Back(now time.Time) (bool, error) {
	if s.completed {
		return false, ErrCompleted
	}
	if s.index == 0 {
		return false, nil
	}
	s.index--
	s.started = now
	q := s.questions[s.index]
	if i, ok := s.answerIdx[q.ID]; ok {
		s.drafts[q.ID] = s.answers[i].Text
	}
	return true, nil
}

// Answers returns one answer per submitted question, in first-submission order
func (s *Session) Answers() []types.Answer {
	return slices.Clone(s.answers)
}

func (s *Session) record(q types.Question, text string, spent int, auto bool, now time.Time) SubmitResult {
	answer := types.Answer{
		QuestionID:    q.ID,
		Text:          text,
		TimeSpent:     spent,
		AutoSubmitted: auto,
		Timestamp:     now,
	}

	result := SubmitResult{Answer: answer}
	if i, ok := s.answerIdx[q.ID]; ok {
		s.answers[i] = answer
		result.Replaced = true
	} else {
		s.answerIdx[q.ID] = len(s.answers)
		s.answers = append(s.answers, answer)
	}
	delete(s.drafts, q.ID)

	s.index++
	s.started = now
	if s.index >= len(s.questions) {
		s.completed = true
		result.Completed = true
	}
	return result
}
