package assessment

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/types"
)

type persistStep struct {
	name string
	run  func(ctx context.Context) error
}

// pendingPersist is the remaining saves of a phase and the transition that follows them
type pendingPersist struct {
	steps []persistStep
	then  func() error
	err   *PersistError
}

func (c *Coordinator) typingStep(result types.TypingTestResult) persistStep {
	return persistStep{
		name: "typing result",
		run: func(ctx context.Context) error {
			return c.deps.Store.PersistTypingResult(ctx, c.applicationID, result)
		},
	}
}

func (c *Coordinator) interviewStep(record InterviewRecord) persistStep {
	return persistStep{
		name: "interview result",
		run: func(ctx context.Context) error {
			return c.deps.Store.PersistInterviewResult(ctx, c.applicationID, record)
		},
	}
}

func (c *Coordinator) statusStep(status types.ApplicationStatus, score *int) persistStep {
	return persistStep{
		name: "application status",
		run: func(ctx context.Context) error {
			return c.deps.Store.UpdateApplicationStatus(ctx, c.applicationID, status, score)
		},
	}
}

func (c *Coordinator) persist(ctx context.Context, steps []persistStep, then func() error) error {
	c.pending = &pendingPersist{steps: steps, then: then}
	return c.flush(ctx)
}

// flush runs the pending saves in order, stopping at the first failure
func (c *Coordinator) flush(ctx context.Context) error {
	p := c.pending
	for len(p.steps) > 0 {
		step := p.steps[0]
		if err := step.run(ctx); err != nil {
			p.err = &PersistError{Step: step.name, Cause: err}
			c.logger.Warn().Err(err).Str("step", step.name).Msg("save failed, result kept in memory")
			return p.err
		}
		p.steps = p.steps[1:]
	}
	p.err = nil
	c.pending = nil
	if p.then != nil {
		return p.then()
	}
	return nil
}

// RetryPersist retries the failed save and continues the flow once all saves succeed
func (c *Coordinator) RetryPersist(ctx context.Context) error {
	return c.run(func() error {
		if c.pending == nil {
			return &StateError{Op: "retry a save", State: "no save is pending"}
		}
		return c.flush(ctx)
	})
}

// BypassPersist drops the failed save and continues with the remaining ones
func (c *Coordinator) BypassPersist(ctx context.Context) error {
	return c.run(func() error {
		if c.pending == nil || len(c.pending.steps) == 0 {
			return &StateError{Op: "bypass a save", State: "no save is pending"}
		}
		skipped := c.pending.steps[0]
		c.logger.Warn().Str("step", skipped.name).Msg("save bypassed")
		c.pending.steps = c.pending.steps[1:]
		return c.flush(ctx)
	})
}

// deepCopy returns an independent copy of v. Used for types without time.Time fields.
func deepCopy[T any](v T) T {
	var out T
	if err := copier.CopyWithOption(&out, &v, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("deep copy failed")
		return v
	}
	return out
}
