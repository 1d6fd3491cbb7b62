package typing

import (
	"math"
	"slices"
	"time"

	"github.com/jonathan/assessment-engine/internal/types"
)

// DefaultDuration is used when a job does not configure a typing duration
const DefaultDuration = 60 * time.Second

// SessionOptions configures a typing test
type SessionOptions struct {
	Duration        time.Duration
	MinimumWPM      int
	MinimumAccuracy int
	FraudDetection  bool
	Sensitivity     string
}

// OptionsFromConfig derives session options from a job configuration
func OptionsFromConfig(cfg types.JobAssessmentConfig) SessionOptions {
	duration := time.Duration(cfg.TypingDurationSeconds) * time.Second
	if duration <= 0 {
		duration = DefaultDuration
	}
	return SessionOptions{
		Duration:        duration,
		MinimumWPM:      cfg.MinimumWPM,
		MinimumAccuracy: cfg.MinimumAccuracy,
		FraudDetection:  cfg.FraudDetection,
		Sensitivity:     cfg.FraudSensitivity,
	}
}

// Session is a single typing test. It is not safe for concurrent use; callers serialize events.
type Session struct {
	reference string
	refLen    int
	opts      SessionOptions

	started       bool
	startedAt     time.Time
	lastKeystroke time.Time

	input       string
	events      []types.KeystrokeEvent
	corrections int
	focusLosses int
	alerts      []string

	result *types.TypingTestResult
}

// NewSession creates a typing test over reference
func NewSession(reference string, opts SessionOptions) *Session {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	return &Session{
		reference: reference,
		refLen:    len([]rune(reference)),
		opts:      opts,
	}
}

// Reference returns the text the candidate must type
func (s *Session) Reference() string {
	return s.reference
}

// Duration returns the configured test length
func (s *Session) Duration() time.Duration {
	return s.opts.Duration
}

// Start begins the clock. Calling it again has no effect.
func (s *Session) Start(now time.Time) {
	if s.started {
		return
	}
	s.started = true
	s.startedAt = now
	s.lastKeystroke = now
}

// Input records an input-change event. It returns true when the input reached the
// reference length and the test was finalized.
func (s *Session) Input(text string, now time.Time) bool {
	if s.result != nil {
		return false
	}
	s.Start(now)

	prevLen := len([]rune(s.input))
	newRunes := []rune(text)
	interval := now.Sub(s.lastKeystroke).Milliseconds()

	correction := len(newRunes) < prevLen
	if correction {
		s.corrections++
	}

	if s.opts.FraudDetection {
		key := "Backspace"
		if !correction && len(newRunes) > 0 {
			key = string(newRunes[len(newRunes)-1])
		}
		s.events = append(s.events, types.KeystrokeEvent{
			Key:        key,
			Timestamp:  now,
			IntervalMs: interval,
			Correction: correction,
		})
		if len(newRunes)-prevLen >= burstMinChars && interval < burstWindowMs {
			s.raise(AlertRapidTyping)
		}
	}

	s.input = text
	s.lastKeystroke = now

	if len(newRunes) >= s.refLen {
		s.finalize(now, types.TypingCompletedByFullText)
		return true
	}
	return false
}

// FocusLost counts a window blur during the test
func (s *Session) FocusLost() {
	if s.result != nil {
		return
	}
	s.focusLosses++
}

// Submit finalizes the test early on the candidate's request
func (s *Session) Submit(now time.Time) types.TypingTestResult {
	return s.finalize(now, types.TypingCompletedBySubmitted)
}

// Expire finalizes the test when the countdown reaches zero
func (s *Session) Expire(now time.Time) types.TypingTestResult {
	return s.finalize(now, types.TypingCompletedByTimeout)
}

// Done reports whether the test has been finalized
func (s *Session) Done() bool {
	return s.result != nil
}

// Result returns the finalized result, if any
func (s *Session) Result() (types.TypingTestResult, bool) {
	if s.result == nil {
		return types.TypingTestResult{}, false
	}
	return cloneResult(*s.result), true
}

// Live returns the current metrics without finalizing
func (s *Session) Live(now time.Time) Stats {
	return ComputeStats(s.input, s.reference, s.elapsed(now))
}

// Remaining returns the time left on the countdown
func (s *Session) Remaining(now time.Time) time.Duration {
	if !s.started {
		return s.opts.Duration
	}
	if left := s.opts.Duration - now.Sub(s.startedAt); left > 0 {
		return left
	}
	return 0
}

// Events returns a copy of the keystroke log
func (s *Session) Events() []types.KeystrokeEvent {
	return slices.Clone(s.events)
}

// FocusLosses returns the number of recorded focus losses
func (s *Session) FocusLosses() int {
	return s.focusLosses
}

func (s *Session) raise(alert string) {
	if !slices.Contains(s.alerts, alert) {
		s.alerts = append(s.alerts, alert)
	}
}

func (s *Session) elapsed(now time.Time) time.Duration {
	if !s.started {
		return 0
	}
	elapsed := now.Sub(s.startedAt)
	if elapsed > s.opts.Duration {
		elapsed = s.opts.Duration
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (s *Session) finalize(now time.Time, completedBy string) types.TypingTestResult {
	if s.result != nil {
		return cloneResult(*s.result)
	}
	s.Start(now)

	elapsed := s.elapsed(now)
	stats := ComputeStats(s.input, s.reference, elapsed)

	fraud := FraudAssessment{Indicators: []string{}}
	if s.opts.FraudDetection {
		fraud = ScoreFraud(FraudInput{
			Events:      s.events,
			FocusLosses: s.focusLosses,
			Alerts:      s.alerts,
			Sensitivity: s.opts.Sensitivity,
		})
	}

	result := types.TypingTestResult{
		WPM:             stats.WPM,
		Accuracy:        stats.Accuracy,
		CharactersTyped: stats.CharactersTyped,
		ErrorsMade:      stats.Errors,
		CorrectionsMade: s.corrections,
		TimeSpent:       int(math.Round(elapsed.Seconds())),
		FraudScore:      fraud.Score,
		FraudIndicators: fraud.Indicators,
		CompletedBy:     completedBy,
	}
	result.Passed = result.WPM >= s.opts.MinimumWPM &&
		result.Accuracy >= s.opts.MinimumAccuracy &&
		result.FraudScore < FraudFailThreshold

	s.result = &result
	return cloneResult(result)
}

func cloneResult(r types.TypingTestResult) types.TypingTestResult {
	r.FraudIndicators = slices.Clone(r.FraudIndicators)
	return r
}
