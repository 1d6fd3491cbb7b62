package assessment

import (
	"context"
	"slices"

	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/types"
)

func (c *Coordinator) startInterview(ctx context.Context) error {
	c.resetTimers()

	questions, err := interview.BuildQuestions(ctx, c.deps.Generator, c.cfg, c.rng)
	if err != nil {
		c.logger.Error().Err(err).Msg("question generation failed, using question bank")
		questions, err = interview.BuildQuestions(ctx, interview.NewBankGenerator(), c.cfg, c.rng)
		if err != nil {
			return err
		}
	}

	c.questions = questions
	c.interview = interview.NewSession(questions)
	c.setStatus(types.PhaseAIInterview, types.PhaseStatusActive, nil)
	c.view = ViewInterview

	c.logger.Info().Int("questions", len(questions)).Str("difficulty", c.cfg.Difficulty).Msg("interview started")

	if c.interview.Start(c.now()) {
		return c.completeInterview(ctx)
	}
	c.armQuestionTimer()
	return nil
}

// armQuestionTimer replaces the countdown for the current question
func (c *Coordinator) armQuestionTimer() {
	if c.questionTimer != nil {
		c.questionTimer.Stop()
		c.questionTimer = nil
	}
	q, ok := c.interview.Current()
	if !ok {
		return
	}
	c.seq++
	seq := c.seq
	c.questionTimer = c.timers.After(c.interview.TimeRemaining(c.now()), func() { c.onQuestionTimeout(seq, q.ID) })
}

func (c *Coordinator) requireInterview(op string) error {
	if c.interview == nil || c.interview.Completed() || c.phaseStatus(types.PhaseAIInterview) != types.PhaseStatusActive {
		return &StateError{Op: op, State: c.describeState()}
	}
	return nil
}

// InterviewDraft stores in-progress text for the current question
func (c *Coordinator) InterviewDraft(text string) error {
	return c.run(func() error {
		if err := c.requireInterview("save a draft"); err != nil {
			return err
		}
		return c.interview.Draft(text)
	})
}

// SubmitAnswer records the answer to the current question and advances. Submitting the
// last question completes the interview.
func (c *Coordinator) SubmitAnswer(ctx context.Context, text string) (interview.SubmitResult, error) {
	var res interview.SubmitResult
	err := c.run(func() error {
		if err := c.requireInterview("submit an answer"); err != nil {
			return err
		}
		var err error
		res, err = c.interview.Submit(text, c.now())
		if err != nil {
			return &StateError{Op: "submit an answer", State: err.Error()}
		}
		return c.afterAnswer(ctx, res)
	})
	return res, err
}

// PreviousQuestion moves back one question, pre-filling the earlier answer
func (c *Coordinator) PreviousQuestion() error {
	return c.run(func() error {
		if err := c.requireInterview("go back"); err != nil {
			return err
		}
		moved, err := c.interview.Back(c.now())
		if err != nil {
			return &StateError{Op: "go back", State: err.Error()}
		}
		if !moved {
			return &StateError{Op: "go back", State: "on the first question"}
		}
		c.armQuestionTimer()
		return nil
	})
}

func (c *Coordinator) onQuestionTimeout(seq uint64, questionID string) {
	err := c.run(func() error {
		if c.seq != seq || c.requireInterview("time out a question") != nil {
			return nil
		}
		if q, ok := c.interview.Current(); !ok || q.ID != questionID {
			return nil
		}
		res, err := c.interview.Timeout(c.now())
		if err != nil {
			return nil
		}
		c.logger.Info().Str("question_id", questionID).Msg("question timed out, answer auto-submitted")
		return c.afterAnswer(c.ctx, res)
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("question timeout left a pending save")
	}
}

func (c *Coordinator) afterAnswer(ctx context.Context, res interview.SubmitResult) error {
	if res.Completed {
		return c.completeInterview(ctx)
	}
	c.armQuestionTimer()
	return nil
}

func (c *Coordinator) completeInterview(ctx context.Context) error {
	c.resetTimers()

	answers := c.interview.Answers()
	evaluations, err := interview.EvaluateAll(ctx, c.deps.Evaluator, c.questions, answers, c.concurrency)
	if err != nil {
		c.logger.Error().Err(err).Msg("answer evaluation failed, using heuristic evaluator")
		heuristic := interview.NewHeuristicEvaluator(c.cfg.EvaluationStrictness)
		evaluations, err = interview.EvaluateAll(ctx, heuristic, c.questions, answers, c.concurrency)
		if err != nil {
			return err
		}
	}

	results := interview.Aggregate(c.questions, answers, evaluations, c.cfg.MinimumPassingScore)
	interview.ApplyRecommendation(ctx, c.deps.Recommender, &results, c.cfg.MinimumPassingScore)

	stored := deepCopy(results)
	c.interviewResults = &stored
	status := types.PhaseStatusCompleted
	if !results.Passed {
		status = types.PhaseStatusFailed
	}
	c.setStatus(types.PhaseAIInterview, status, results)
	c.view = ViewOverview

	c.logger.Info().
		Int("percentage", results.PercentageScore).
		Int("attempted", results.QuestionsAttempted).
		Int("auto_submitted", results.TimeAnalysis.QuestionsAutoSubmitted).
		Bool("passed", results.Passed).
		Msg("interview complete")

	outcome := Outcome{
		Passed:    results.Passed,
		ATS:       c.ats,
		Typing:    c.typingResult,
		Interview: c.interviewResults,
	}
	if results.Passed {
		score := results.PercentageScore
		outcome.Status = types.ApplicationStatusUnderReview
		outcome.Score = &score
	} else {
		outcome.FailedPhase = types.PhaseAIInterview
		outcome.Status = types.ApplicationStatusRejected
	}

	record := InterviewRecord{
		Questions: slices.Clone(c.questions),
		Answers:   answers,
		Results:   deepCopy(results),
	}
	steps := []persistStep{
		c.interviewStep(record),
		c.statusStep(outcome.Status, outcome.Score),
	}
	return c.persist(ctx, steps, func() error {
		c.finish(outcome)
		return nil
	})
}
