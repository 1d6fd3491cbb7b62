package assessment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/events"
	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/types"
)

var (
	t0           = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	jobID        = uuid.MustParse("0b7e6c1e-8f0a-4c44-9d57-1f1c5a2f0001")
	appID        = uuid.MustParse("0b7e6c1e-8f0a-4c44-9d57-1f1c5a2f0002")
	errStoreDown = errors.New("store unavailable")
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: t0}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type statusUpdate struct {
	Status types.ApplicationStatus
	Score  *int
}

type fakeStore struct {
	mu sync.Mutex

	job *types.JobAssessmentConfig
	app *types.Application

	typingResults    []types.TypingTestResult
	interviewRecords []InterviewRecord
	statusUpdates    []statusUpdate

	// fail* is the number of upcoming calls that return errStoreDown
	failTyping    int
	failInterview int
	failStatus    int
}

func newFakeStore(cfg types.JobAssessmentConfig, atsScore int) *fakeStore {
	return &fakeStore{
		job: &cfg,
		app: &types.Application{ID: appID, JobID: jobID, ATSScore: atsScore},
	}
}

func (s *fakeStore) FetchJobConfig(_ context.Context, id uuid.UUID) (*types.JobAssessmentConfig, error) {
	if s.job == nil || id != jobID {
		return nil, nil
	}
	cfg := *s.job
	return &cfg, nil
}

func (s *fakeStore) FetchApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	if s.app == nil || id != appID {
		return nil, nil
	}
	app := *s.app
	return &app, nil
}

func (s *fakeStore) PersistTypingResult(_ context.Context, _ uuid.UUID, result types.TypingTestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTyping > 0 {
		s.failTyping--
		return errStoreDown
	}
	s.typingResults = append(s.typingResults, result)
	return nil
}

func (s *fakeStore) PersistInterviewResult(_ context.Context, _ uuid.UUID, record InterviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInterview > 0 {
		s.failInterview--
		return errStoreDown
	}
	s.interviewRecords = append(s.interviewRecords, record)
	return nil
}

func (s *fakeStore) UpdateApplicationStatus(_ context.Context, _ uuid.UUID, status types.ApplicationStatus, score *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStatus > 0 {
		s.failStatus--
		return errStoreDown
	}
	s.statusUpdates = append(s.statusUpdates, statusUpdate{Status: status, Score: score})
	return nil
}

func (s *fakeStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.typingResults) + len(s.interviewRecords) + len(s.statusUpdates)
}

// scoreEvaluator gives every answer the same aiScore
type scoreEvaluator struct {
	score int
	err   error
}

func (e scoreEvaluator) Evaluate(_ context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error) {
	if e.err != nil {
		return types.QuestionEvaluation{}, e.err
	}
	return interview.DeriveEvaluation(q, a, e.score, 50, "fixed", nil), nil
}

// countingGenerator records calls to the question bank
type countingGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, cfg types.JobAssessmentConfig, alloc interview.Allocation) ([]types.Question, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return interview.NewBankGenerator().Generate(ctx, cfg, alloc)
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CompletedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.CompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func baseConfig() types.JobAssessmentConfig {
	return types.JobAssessmentConfig{
		TypingEnabled:         true,
		MinimumWPM:            30,
		MinimumAccuracy:       90,
		TypingDurationSeconds: 60,
		TotalQuestions:        2,
		Distribution:          types.Distribution{types.CategoryCoding: 50, types.CategoryDSA: 50},
		Difficulty:            types.DifficultyEasy,
		MinimumPassingScore:   70,
		ATSMinimumScore:       60,
	}
}

type harness struct {
	c         *Coordinator
	store     *fakeStore
	clock     *fakeClock
	gen       *countingGenerator
	publisher *recordingPublisher

	mu        sync.Mutex
	outcomes  []Outcome
	cancelled int
}

func newHarness(cfg types.JobAssessmentConfig, atsScore, aiScore int, opts ...Option) *harness {
	h := &harness{
		store:     newFakeStore(cfg, atsScore),
		clock:     newFakeClock(),
		gen:       &countingGenerator{},
		publisher: &recordingPublisher{},
	}
	base := []Option{
		WithClock(h.clock.Now),
		WithRand(nil),
		WithInterviewDelay(0),
		WithOnComplete(func(o Outcome) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.outcomes = append(h.outcomes, o)
		}),
		WithOnCancel(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.cancelled++
		}),
	}
	h.c = New(Deps{
		Store:     h.store,
		Generator: h.gen,
		Evaluator: scoreEvaluator{score: aiScore},
		Publisher: h.publisher,
	}, append(base, opts...)...)
	return h
}

func (h *harness) Outcomes() []Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Outcome(nil), h.outcomes...)
}

func (h *harness) Cancelled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func phaseStatuses(s Snapshot) map[types.PhaseID]types.PhaseStatus {
	out := make(map[types.PhaseID]types.PhaseStatus, len(s.Phases))
	for _, p := range s.Phases {
		out[p.ID] = p.Status
	}
	return out
}

// currentSeq reads the callback token the way a timer closure captured it
func (h *harness) currentSeq() uint64 {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	return h.c.seq
}
