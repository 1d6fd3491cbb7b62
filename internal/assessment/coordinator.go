package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/events"
	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/timer"
	"github.com/jonathan/assessment-engine/internal/typing"
	"github.com/jonathan/assessment-engine/internal/types"
)

// DefaultInterviewDelay is the pause between a passed typing test and the interview
const DefaultInterviewDelay = 2 * time.Second

// Deps are the collaborators of a coordinator. Generator and Evaluator default to the
// question bank and the heuristic evaluator; Recommender and Publisher are optional.
type Deps struct {
	Store     Store
	Generator interview.QuestionGenerator
	Evaluator interview.AnswerEvaluator
	// EvaluatorFor builds the evaluator from the job config when Evaluator is nil
	EvaluatorFor func(types.JobAssessmentConfig) interview.AnswerEvaluator
	Recommender  interview.Recommender
	Publisher    events.Publisher
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithID sets the assessment id
func WithID(id uuid.UUID) Option {
	return func(c *Coordinator) { c.id = id }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRand sets the source used to pick passages and shuffle questions
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// WithInterviewDelay sets the pause after a passed typing test. Zero starts the
// interview immediately.
func WithInterviewDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.interviewDelay = d }
}

// WithEvaluationConcurrency bounds parallel answer evaluation
func WithEvaluationConcurrency(n int) Option {
	return func(c *Coordinator) { c.concurrency = n }
}

// WithOnComplete registers a callback for the final outcome
func WithOnComplete(fn func(Outcome)) Option {
	return func(c *Coordinator) { c.onComplete = fn }
}

// WithOnCancel registers a callback for candidate cancellation
func WithOnCancel(fn func()) Option {
	return func(c *Coordinator) { c.onCancel = fn }
}

// Coordinator runs one candidate's assessment. All events, including timer callbacks,
// are serialized on mu.
type Coordinator struct {
	mu sync.Mutex

	id             uuid.UUID
	deps           Deps
	now            func() time.Time
	rng            *rand.Rand
	interviewDelay time.Duration
	concurrency    int
	onComplete     func(Outcome)
	onCancel       func()

	// ctx outlives the Start request; timer callbacks use it
	ctx    context.Context
	logger zerolog.Logger

	started       bool
	jobID         uuid.UUID
	applicationID uuid.UUID
	cfg           types.JobAssessmentConfig
	phases        []types.PhaseRecord
	view          View
	ats           types.ATSCheckResult

	timers        *timer.Group
	questionTimer *timer.Handle
	// seq is bumped whenever scheduled callbacks become stale
	seq uint64

	typing       *typing.Session
	typingResult *types.TypingTestResult

	questions        []types.Question
	interview        *interview.Session
	interviewResults *types.InterviewResults

	pending *pendingPersist
	outcome *Outcome

	notify []func()
}

// New creates a coordinator. Call Start before any other event.
func New(deps Deps, opts ...Option) *Coordinator {
	c := &Coordinator{
		id:             uuid.New(),
		deps:           deps,
		now:            time.Now,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		interviewDelay: DefaultInterviewDelay,
		concurrency:    interview.DefaultConcurrency,
		ctx:            context.Background(),
		timers:         timer.NewGroup(),
		view:           ViewOverview,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.deps.Generator == nil {
		c.deps.Generator = interview.NewBankGenerator()
	}
	c.logger = log.With().Str("assessment_id", c.id.String()).Logger()
	return c
}

// ID returns the assessment id
func (c *Coordinator) ID() uuid.UUID {
	return c.id
}

// run serializes fn and invokes queued callbacks after releasing the lock
func (c *Coordinator) run(fn func() error) error {
	c.mu.Lock()
	err := fn()
	notify := c.notify
	c.notify = nil
	c.mu.Unlock()

	for _, f := range notify {
		f()
	}
	return err
}

// Start loads the job configuration and application, then evaluates the ATS gate
func (c *Coordinator) Start(ctx context.Context, jobID, applicationID uuid.UUID) error {
	return c.run(func() error {
		if c.started {
			return &StateError{Op: "start", State: "already started"}
		}
		if c.deps.Store == nil {
			return &ConfigError{Message: "no results store configured"}
		}

		cfg, err := c.deps.Store.FetchJobConfig(ctx, jobID)
		if err != nil {
			return &ConfigError{Message: "failed to load job assessment config", Cause: err}
		}
		if cfg == nil {
			return &ConfigError{Message: fmt.Sprintf("job %s has no assessment config", jobID)}
		}

		app, err := c.deps.Store.FetchApplication(ctx, applicationID)
		if err != nil {
			return &ConfigError{Message: "failed to load application", Cause: err}
		}
		if app == nil {
			return &ConfigError{Message: fmt.Sprintf("application %s not found", applicationID)}
		}
		if app.JobID != uuid.Nil && app.JobID != jobID {
			return &ConfigError{Message: fmt.Sprintf("application %s belongs to job %s", applicationID, app.JobID)}
		}

		normalized, err := config.NormalizeJobConfig(*cfg)
		if err != nil {
			return &ConfigError{Message: "invalid job assessment config", Cause: err}
		}

		c.ctx = context.WithoutCancel(ctx)
		c.started = true
		c.jobID = jobID
		c.applicationID = applicationID
		c.cfg = normalized
		if c.deps.Evaluator == nil && c.deps.EvaluatorFor != nil {
			c.deps.Evaluator = c.deps.EvaluatorFor(normalized)
		}
		if c.deps.Evaluator == nil {
			c.deps.Evaluator = interview.NewHeuristicEvaluator(normalized.EvaluationStrictness)
		}
		c.logger = c.logger.With().
			Str("job_id", jobID.String()).
			Str("application_id", applicationID.String()).
			Logger()

		c.initPhases(app.ATSScore)
		return nil
	})
}

func (c *Coordinator) initPhases(atsScore int) {
	c.ats = types.ATSCheckResult{
		Score:        atsScore,
		MinimumScore: c.cfg.ATSMinimumScore,
		Passed:       atsScore >= c.cfg.ATSMinimumScore,
	}

	atsStatus := types.PhaseStatusCompleted
	if !c.ats.Passed {
		atsStatus = types.PhaseStatusFailed
	}
	typingStatus := types.PhaseStatusPending
	if !c.cfg.TypingEnabled {
		typingStatus = types.PhaseStatusSkipped
	}

	c.phases = []types.PhaseRecord{
		{ID: types.PhaseATSCheck, Status: atsStatus, Required: true, Results: mustJSON(c.ats)},
		{ID: types.PhaseTypingTest, Status: typingStatus, Required: c.cfg.TypingEnabled},
		{ID: types.PhaseAIInterview, Status: types.PhaseStatusPending, Required: true},
	}
	c.view = ViewOverview

	c.logger.Info().
		Int("ats_score", atsScore).
		Int("ats_minimum", c.cfg.ATSMinimumScore).
		Bool("typing_enabled", c.cfg.TypingEnabled).
		Msg("assessment started")

	if !c.ats.Passed {
		c.finish(Outcome{Passed: false, FailedPhase: types.PhaseATSCheck, ATS: c.ats})
	}
}

// Begin starts the next pending phase from the overview
func (c *Coordinator) Begin(ctx context.Context) error {
	return c.run(func() error {
		if err := c.requireOverview("begin a phase"); err != nil {
			return err
		}
		switch c.nextPending() {
		case types.PhaseTypingTest:
			c.startTyping()
			return nil
		case types.PhaseAIInterview:
			return c.startInterview(ctx)
		default:
			return &StateError{Op: "begin a phase", State: "no phase is pending"}
		}
	})
}

// Cancel discards the active phase's state and returns to the overview without
// persisting anything
func (c *Coordinator) Cancel() error {
	return c.run(func() error {
		if !c.started {
			return &StateError{Op: "cancel", State: "not started"}
		}
		if c.outcome != nil {
			return &StateError{Op: "cancel", State: "assessment is complete"}
		}

		c.resetTimers()
		if active := c.activePhase(); active != "" {
			c.setStatus(active, types.PhaseStatusPending, nil)
			c.logger.Info().Str("phase", string(active)).Msg("phase cancelled")
		}
		if c.typingResult == nil {
			c.typing = nil
		}
		if c.interviewResults == nil {
			c.interview = nil
			c.questions = nil
		}
		c.view = ViewOverview

		if c.onCancel != nil {
			c.notify = append(c.notify, c.onCancel)
		}
		return nil
	})
}

// Close stops all timers. The coordinator ignores timer callbacks afterwards.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetTimers()
}

// resetTimers stops the current phase's timers and opens a fresh group
func (c *Coordinator) resetTimers() {
	c.timers.StopAll()
	c.timers = timer.NewGroup()
	c.questionTimer = nil
	c.seq++
}

func (c *Coordinator) finish(outcome Outcome) {
	c.resetTimers()
	c.outcome = &outcome
	c.view = ViewResults

	c.logger.Info().
		Bool("passed", outcome.Passed).
		Str("failed_phase", string(outcome.FailedPhase)).
		Str("status", string(outcome.Status)).
		Msg("assessment complete")

	// The ATS gate writes nothing, so there is no status change to announce
	if c.deps.Publisher != nil && outcome.FailedPhase != types.PhaseATSCheck {
		event := events.CompletedEvent{
			AssessmentID:    c.id,
			ApplicationID:   c.applicationID,
			JobID:           c.jobID,
			OverallPassed:   outcome.Passed,
			Status:          outcome.Status,
			AssessmentScore: outcome.Score,
			FailedPhase:     outcome.FailedPhase,
			CompletedAt:     c.now().UTC(),
		}
		if err := c.deps.Publisher.Publish(c.ctx, event); err != nil {
			c.logger.Warn().Err(err).Msg("failed to publish completion event")
		}
	}

	if c.onComplete != nil {
		handoff := deepCopy(outcome)
		c.notify = append(c.notify, func() { c.onComplete(handoff) })
	}
}

func (c *Coordinator) phase(id types.PhaseID) *types.PhaseRecord {
	for i := range c.phases {
		if c.phases[i].ID == id {
			return &c.phases[i]
		}
	}
	return nil
}

func (c *Coordinator) phaseStatus(id types.PhaseID) types.PhaseStatus {
	if p := c.phase(id); p != nil {
		return p.Status
	}
	return ""
}

// setStatus moves a phase to status. Results are recorded only for terminal statuses.
func (c *Coordinator) setStatus(id types.PhaseID, status types.PhaseStatus, results any) {
	p := c.phase(id)
	if p == nil {
		return
	}
	p.Status = status
	p.Results = nil
	if status.Terminal() && results != nil {
		p.Results = mustJSON(results)
	}
}

func (c *Coordinator) activePhase() types.PhaseID {
	for _, p := range c.phases {
		if p.Status == types.PhaseStatusActive {
			return p.ID
		}
	}
	return ""
}

func (c *Coordinator) nextPending() types.PhaseID {
	for _, p := range c.phases {
		if p.Status == types.PhaseStatusPending {
			return p.ID
		}
	}
	return ""
}

func (c *Coordinator) describeState() string {
	switch {
	case !c.started:
		return "not started"
	case c.outcome != nil:
		return "assessment is complete"
	case c.pending != nil:
		return "a save is pending"
	}
	if active := c.activePhase(); active != "" {
		return fmt.Sprintf("%s is active", active)
	}
	return "in overview"
}

func (c *Coordinator) requireOverview(op string) error {
	if !c.started || c.outcome != nil || c.pending != nil || c.activePhase() != "" {
		return &StateError{Op: op, State: c.describeState()}
	}
	return nil
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal phase results")
		return nil
	}
	return data
}
