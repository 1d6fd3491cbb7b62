package assessment

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/typing"
	"github.com/jonathan/assessment-engine/internal/types"
)

// Snapshot is a point-in-time copy of the coordinator state for the presentation layer
type Snapshot struct {
	ID            uuid.UUID           `json:"id"`
	JobID         uuid.UUID           `json:"job_id"`
	ApplicationID uuid.UUID           `json:"application_id"`
	View          View                `json:"view"`
	Phases        []types.PhaseRecord `json:"phases"`

	Typing    *TypingView    `json:"typing,omitempty"`
	Interview *InterviewView `json:"interview,omitempty"`
	Outcome   *Outcome       `json:"outcome,omitempty"`

	// PendingSave names the save waiting for retry or bypass
	PendingSave  string `json:"pending_save,omitempty"`
	PersistError string `json:"persist_error,omitempty"`
}

// TypingView is the typing test as the candidate sees it
type TypingView struct {
	Reference        string                  `json:"reference"`
	Stats            typing.Stats            `json:"stats"`
	RemainingSeconds int                     `json:"remaining_seconds"`
	FocusLosses      int                     `json:"focus_losses"`
	Result           *types.TypingTestResult `json:"result,omitempty"`
}

// InterviewView is the interview as the candidate sees it
type InterviewView struct {
	Index            int                     `json:"index"`
	Total            int                     `json:"total"`
	Answered         int                     `json:"answered"`
	Question         *types.Question         `json:"question,omitempty"`
	Draft            string                  `json:"draft,omitempty"`
	RemainingSeconds int                     `json:"remaining_seconds"`
	Results          *types.InterviewResults `json:"results,omitempty"`
}

// Snapshot returns a deep copy of the current state
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	snap := Snapshot{
		ID:            c.id,
		JobID:         c.jobID,
		ApplicationID: c.applicationID,
		View:          c.view,
		Phases:        deepCopy(c.phases),
	}

	if c.typing != nil {
		tv := &TypingView{
			Reference:        c.typing.Reference(),
			Stats:            c.typing.Live(now),
			RemainingSeconds: ceilSeconds(c.typing.Remaining(now)),
			FocusLosses:      c.typing.FocusLosses(),
		}
		if c.typingResult != nil {
			result := deepCopy(*c.typingResult)
			tv.Result = &result
			tv.RemainingSeconds = 0
		}
		snap.Typing = tv
	}

	if c.interview != nil {
		iv := &InterviewView{
			Index:    c.interview.Index(),
			Total:    c.interview.Len(),
			Answered: len(c.interview.Answers()),
		}
		if q, ok := c.interview.Current(); ok {
			iv.Question = &q
			iv.Draft = c.interview.DraftText()
			iv.RemainingSeconds = ceilSeconds(c.interview.TimeRemaining(now))
		}
		if c.interviewResults != nil {
			results := deepCopy(*c.interviewResults)
			iv.Results = &results
		}
		snap.Interview = iv
	}

	if c.outcome != nil {
		outcome := deepCopy(*c.outcome)
		snap.Outcome = &outcome
	}

	if c.pending != nil && c.pending.err != nil {
		snap.PendingSave = c.pending.err.Step
		snap.PersistError = c.pending.err.Error()
	}
	return snap
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
