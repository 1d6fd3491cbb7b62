package interview

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/assessment-engine/internal/types"
)

// AnswerEvaluator scores a single answer
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error)
}

// Sub-score ratios of the overall aiScore
const (
	technicalAccuracyRatio = 0.9
	problemSolvingRatio    = 0.8
	communicationRatio     = 0.85
)

// Time management step values
const (
	timeManagementWithinLimit = 90
	timeManagementAtLimit     = 60
)

// DeriveEvaluation builds a QuestionEvaluation from an overall aiScore and an
// evaluator-chosen creativity score. The remaining sub-scores are fixed functions of aiScore
// and the answer time.
func DeriveEvaluation(q types.Question, a types.Answer, aiScore, creativity int, feedback string, suggestions []string) types.QuestionEvaluation {
	aiScore = clampScore(aiScore)
	timeManagement := timeManagementAtLimit
	if a.TimeSpent < q.TimeLimit {
		timeManagement = timeManagementWithinLimit
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return types.QuestionEvaluation{
		QuestionID:        q.ID,
		TechnicalAccuracy: ratio(aiScore, technicalAccuracyRatio),
		ProblemSolving:    ratio(aiScore, problemSolvingRatio),
		Communication:     ratio(aiScore, communicationRatio),
		TimeManagement:    timeManagement,
		Creativity:        clampScore(creativity),
		AIScore:           aiScore,
		Feedback:          feedback,
		Suggestions:       suggestions,
	}
}

func ratio(score int, r float64) int {
	return int(math.Round(float64(score) * r))
}

func clampScore(score int) int {
	return max(0, min(types.MaxQuestionScore, score))
}

// targetWords is the answer length that earns full effort credit
const targetWords = 80

// categoryKeywords are the terms that show a category-relevant answer
var categoryKeywords = map[types.Category][]string{
	types.CategoryCoding:         {"test", "function", "refactor", "interface", "latency", "cache", "review", "deploy"},
	types.CategoryDSA:            {"complexity", "o(", "hash", "tree", "graph", "heap", "array", "queue", "pointer"},
	types.CategoryEducation:      {"learned", "course", "study", "applied", "degree", "book", "practice"},
	types.CategoryAchievements:   {"led", "delivered", "impact", "improved", "reduced", "increased", "launched", "%"},
	types.CategoryProblemSolving: {"first", "hypothesis", "root cause", "measure", "trade-off", "then", "because"},
}

// strictnessShift adjusts the heuristic score per evaluation strictness
func strictnessShift(strictness string) int {
	switch strictness {
	case types.StrictnessLenient:
		return 5
	case types.StrictnessStrict:
		return -10
	default:
		return 0
	}
}

// HeuristicEvaluator scores answers deterministically from their length, structure and
// category vocabulary. It stands in for a model-backed evaluator.
type HeuristicEvaluator struct {
	Strictness string
}

// NewHeuristicEvaluator creates a heuristic evaluator for a strictness level
func NewHeuristicEvaluator(strictness string) *HeuristicEvaluator {
	return &HeuristicEvaluator{Strictness: strictness}
}

// Evaluate scores a single answer
func (e *HeuristicEvaluator) Evaluate(_ context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return DeriveEvaluation(q, a, 0, 0, "No answer was provided.",
			[]string{"Attempt every question, even with a partial answer."}), nil
	}

	words := strings.Fields(strings.ToLower(text))
	effort := math.Min(1.0, float64(len(words))/targetWords)

	score := 30 + int(math.Round(50*effort))
	if countSentences(text) >= 2 {
		score += 10
	}
	hasKeyword := mentionsAny(strings.ToLower(text), categoryKeywords[q.Category])
	if hasKeyword {
		score += 10
	}
	score = clampScore(score + strictnessShift(e.Strictness))

	var suggestions []string
	if effort < 1.0 {
		suggestions = append(suggestions, "Expand on your reasoning with a concrete example.")
	}
	if !hasKeyword {
		suggestions = append(suggestions, fmt.Sprintf("Reference specific %s techniques or outcomes.", categoryLabel(q.Category)))
	}
	if a.AutoSubmitted {
		suggestions = append(suggestions, "Budget your time so you can finish before the timer runs out.")
	}

	return DeriveEvaluation(q, a, score, creativityScore(words), feedbackFor(score), suggestions), nil
}

// creativityScore rewards lexical variety
func creativityScore(words []string) int {
	if len(words) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	variety := float64(len(distinct)) / float64(len(words))
	return int(math.Round(50 + 50*variety))
}

func countSentences(text string) int {
	n := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' }) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func mentionsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func categoryLabel(c types.Category) string {
	return strings.ReplaceAll(string(c), "_", " ")
}

func feedbackFor(score int) string {
	switch {
	case score >= 85:
		return "Excellent answer with clear structure and relevant detail."
	case score >= 70:
		return "Good answer that covers the main points."
	case score >= 50:
		return "Adequate answer, but it lacks depth in places."
	default:
		return "The answer is too brief to demonstrate the expected skills."
	}
}

// FallbackEvaluator uses Primary and falls back to Fallback when Primary fails
type FallbackEvaluator struct {
	Primary  AnswerEvaluator
	Fallback AnswerEvaluator
}

// Evaluate scores with the primary evaluator, falling back on error
func (e *FallbackEvaluator) Evaluate(ctx context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error) {
	eval, err := e.Primary.Evaluate(ctx, q, a)
	if err == nil {
		return eval, nil
	}
	log.Warn().Err(err).Str("question_id", q.ID).Msg("primary evaluator failed, using fallback")
	return e.Fallback.Evaluate(ctx, q, a)
}

// DefaultConcurrency bounds parallel evaluator calls
const DefaultConcurrency = 4

// EvaluateAll evaluates every answer, concurrently up to the given limit. The returned
// evaluations follow answer order.
func EvaluateAll(ctx context.Context, evaluator AnswerEvaluator, questions []types.Question, answers []types.Answer, concurrency int) ([]types.QuestionEvaluation, error) {
	byID := make(map[string]types.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	for _, answer := range answers {
		if _, ok := byID[answer.QuestionID]; !ok {
			return nil, &EvaluationError{QuestionID: answer.QuestionID, Cause: fmt.Errorf("unknown question")}
		}
	}

	evaluations := make([]types.QuestionEvaluation, len(answers))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, answer := range answers {
		q := byID[answer.QuestionID]
		g.Go(func() error {
			eval, err := evaluator.Evaluate(gCtx, q, answer)
			if err != nil {
				return &EvaluationError{QuestionID: q.ID, Cause: err}
			}
			eval.QuestionID = q.ID
			evaluations[i] = eval
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evaluations, nil
}
