package assessment

import (
	"context"

	"github.com/jonathan/assessment-engine/internal/typing"
	"github.com/jonathan/assessment-engine/internal/types"
)

func (c *Coordinator) startTyping() {
	c.resetTimers()

	c.typing = typing.NewSession(typing.ReferenceText(c.rng), typing.OptionsFromConfig(c.cfg))
	c.typing.Start(c.now())
	c.setStatus(types.PhaseTypingTest, types.PhaseStatusActive, nil)
	c.view = ViewTyping

	seq := c.seq
	c.timers.After(c.typing.Duration(), func() { c.onTypingExpired(seq) })

	c.logger.Info().Dur("duration", c.typing.Duration()).Msg("typing test started")
}

func (c *Coordinator) requireTyping(op string) error {
	if c.typing == nil || c.typing.Done() || c.phaseStatus(types.PhaseTypingTest) != types.PhaseStatusActive {
		return &StateError{Op: op, State: c.describeState()}
	}
	return nil
}

// TypingInput records the candidate's current input and returns the live metrics.
// Reaching the reference length completes the test.
func (c *Coordinator) TypingInput(ctx context.Context, text string) (typing.Stats, error) {
	var stats typing.Stats
	err := c.run(func() error {
		if err := c.requireTyping("record typing input"); err != nil {
			return err
		}
		now := c.now()
		finished := c.typing.Input(text, now)
		stats = c.typing.Live(now)
		if finished {
			result, _ := c.typing.Result()
			return c.completeTyping(ctx, result)
		}
		return nil
	})
	return stats, err
}

// TypingFocusLost counts a window blur during the typing test
func (c *Coordinator) TypingFocusLost() error {
	return c.run(func() error {
		if err := c.requireTyping("record focus loss"); err != nil {
			return err
		}
		c.typing.FocusLost()
		return nil
	})
}

// SubmitTyping ends the typing test early
func (c *Coordinator) SubmitTyping(ctx context.Context) (types.TypingTestResult, error) {
	var result types.TypingTestResult
	err := c.run(func() error {
		if err := c.requireTyping("submit the typing test"); err != nil {
			return err
		}
		result = c.typing.Submit(c.now())
		return c.completeTyping(ctx, result)
	})
	return result, err
}

func (c *Coordinator) onTypingExpired(seq uint64) {
	err := c.run(func() error {
		if c.seq != seq || c.requireTyping("expire the typing test") != nil {
			return nil
		}
		return c.completeTyping(c.ctx, c.typing.Expire(c.now()))
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("typing test expiry left a pending save")
	}
}

func (c *Coordinator) completeTyping(ctx context.Context, result types.TypingTestResult) error {
	c.resetTimers()

	stored := deepCopy(result)
	c.typingResult = &stored
	status := types.PhaseStatusCompleted
	if !result.Passed {
		status = types.PhaseStatusFailed
	}
	c.setStatus(types.PhaseTypingTest, status, result)
	c.view = ViewOverview

	c.logger.Info().
		Int("wpm", result.WPM).
		Int("accuracy", result.Accuracy).
		Float64("fraud_score", result.FraudScore).
		Str("completed_by", result.CompletedBy).
		Bool("passed", result.Passed).
		Msg("typing test complete")

	steps := []persistStep{c.typingStep(result)}
	if !result.Passed {
		steps = append(steps, c.statusStep(types.ApplicationStatusRejected, nil))
		return c.persist(ctx, steps, func() error {
			c.finish(Outcome{
				Passed:      false,
				FailedPhase: types.PhaseTypingTest,
				Status:      types.ApplicationStatusRejected,
				ATS:         c.ats,
				Typing:      c.typingResult,
			})
			return nil
		})
	}
	return c.persist(ctx, steps, c.scheduleInterview)
}

// scheduleInterview starts the interview after the configured delay
func (c *Coordinator) scheduleInterview() error {
	if c.interviewDelay <= 0 {
		return c.startInterview(c.ctx)
	}
	seq := c.seq
	c.timers.After(c.interviewDelay, func() { c.onInterviewDelay(seq) })
	return nil
}

func (c *Coordinator) onInterviewDelay(seq uint64) {
	err := c.run(func() error {
		if c.seq != seq || c.requireOverview("start the interview") != nil {
			return nil
		}
		if c.nextPending() != types.PhaseAIInterview {
			return nil
		}
		return c.startInterview(c.ctx)
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to start interview")
	}
}
