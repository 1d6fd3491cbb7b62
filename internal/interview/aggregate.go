package interview

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/types"
)

// Recommender produces the recommendation and next-steps text for aggregated results
type Recommender interface {
	Recommend(ctx context.Context, results types.InterviewResults, minimumPassingScore int) (recommendation, nextSteps string, err error)
}

// TemplateRecommender returns fixed text selected by the verdict
type TemplateRecommender struct{}

// Recommend returns the template strings for passed/failed interviews
func (TemplateRecommender) Recommend(_ context.Context, results types.InterviewResults, _ int) (string, string, error) {
	recommendation, nextSteps := templateText(results.Passed)
	return recommendation, nextSteps, nil
}

// ApplyRecommendation replaces the template text in results with rec's output. Errors
// keep the template text.
func ApplyRecommendation(ctx context.Context, rec Recommender, results *types.InterviewResults, minimumPassingScore int) {
	if rec == nil {
		return
	}
	recommendation, nextSteps, err := rec.Recommend(ctx, *results, minimumPassingScore)
	if err != nil {
		log.Warn().Err(err).Msg("recommendation generation failed, keeping template text")
		return
	}
	if recommendation != "" {
		results.Recommendation = recommendation
	}
	if nextSteps != "" {
		results.NextSteps = nextSteps
	}
}

func templateText(passed bool) (string, string) {
	if passed {
		return "Strong candidate. Demonstrated solid technical knowledge and problem-solving ability.",
			"Proceed to the final interview round with the hiring manager."
	}
	return "The candidate did not meet the minimum score for this role.",
		"Thank the candidate and share general feedback on the areas to improve."
}

// Aggregate combines answers and their evaluations into interview results. The percentage
// score is the mean aiScore, which is only correct while every question's MaxScore is 100.
// Recommendation text comes from the verdict templates.
func Aggregate(questions []types.Question, answers []types.Answer, evaluations []types.QuestionEvaluation, minimumPassingScore int) types.InterviewResults {
	categoryOf := make(map[string]types.Category, len(questions))
	for _, q := range questions {
		categoryOf[q.ID] = q.Category
	}

	results := types.InterviewResults{
		QuestionsAttempted: len(answers),
		CategoryBreakdown:  make(map[types.Category]int, len(types.Categories)),
		Evaluations:        make([]types.QuestionEvaluation, len(evaluations)),
	}
	copy(results.Evaluations, evaluations)

	sums := make(map[types.Category]int)
	counts := make(map[types.Category]int)
	for _, eval := range evaluations {
		results.TotalScore += eval.AIScore
		if c, ok := categoryOf[eval.QuestionID]; ok {
			sums[c] += eval.AIScore
			counts[c]++
		}
	}
	for _, c := range types.Categories {
		results.CategoryBreakdown[c] = roundedMean(sums[c], counts[c])
	}

	for _, a := range answers {
		if strings.TrimSpace(a.Text) != "" {
			results.QuestionsCompleted++
		}
		if a.AutoSubmitted {
			results.TimeAnalysis.QuestionsAutoSubmitted++
		}
		results.TimeAnalysis.TotalTimeSpent += a.TimeSpent
	}

	results.PercentageScore = roundedMean(results.TotalScore, results.QuestionsAttempted)
	results.TimeAnalysis.AverageTimePerQuestion = roundedMean(results.TimeAnalysis.TotalTimeSpent, results.QuestionsAttempted)

	results.Passed = results.PercentageScore >= minimumPassingScore
	results.Recommendation, results.NextSteps = templateText(results.Passed)
	return results
}

func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
