package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-engine/internal/llm"
	"github.com/jonathan/assessment-engine/internal/types"
)

func TestLLMGenerator_PadsAndTrims(t *testing.T) {
	var gotPrompt string
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotPrompt = prompt
			assert.Equal(t, llm.TierStandard, tier)
			return "```json\n" + `{"questions": [
				{"category": "coding", "text": "Explain goroutine leaks."},
				{"category": "coding", "text": "Explain channel direction."},
				{"category": "coding", "text": "One too many."},
				{"category": "astrology", "text": "Ignored."},
				{"category": "dsa", "text": "  "}
			]}` + "\n```", nil
		},
	}
	cfg := types.JobAssessmentConfig{Difficulty: types.DifficultyEasy}
	alloc := Allocation{types.CategoryCoding: 2, types.CategoryDSA: 1}

	questions, err := NewLLMGenerator(client).Generate(context.Background(), cfg, alloc)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, "Explain goroutine leaks.", questions[0].Text)
	assert.Equal(t, "Explain channel direction.", questions[1].Text)
	assert.Equal(t, questionBank[types.CategoryDSA][0], questions[2].Text)
	assert.Equal(t, 180, questions[0].TimeLimit)

	assert.Contains(t, gotPrompt, "coding=2, dsa=1")
	assert.Contains(t, gotPrompt, "Write exactly 3 interview questions at easy difficulty")
}

func TestLLMGenerator_UsesPinnedModel(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONWithModelFunc: func(_ context.Context, _ string, model string) (string, error) {
			assert.Equal(t, "gemini-custom", model)
			return `{"questions": [{"category": "education", "text": "What did you study?"}]}`, nil
		},
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			t.Fatal("tier model should not be used when a model is pinned")
			return "", nil
		},
	}

	questions, err := NewLLMGenerator(client).Generate(context.Background(),
		types.JobAssessmentConfig{AIModel: "gemini-custom"}, Allocation{types.CategoryEducation: 1})
	require.NoError(t, err)
	assert.Equal(t, "What did you study?", questions[0].Text)
}

func TestLLMGenerator_InvalidJSON(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "not json", nil
		},
	}

	_, err := NewLLMGenerator(client).Generate(context.Background(), types.JobAssessmentConfig{}, Allocation{types.CategoryCoding: 1})
	assert.ErrorContains(t, err, "failed to parse LLM response")
}

func TestLLMEvaluator_Evaluate(t *testing.T) {
	var gotTier llm.ModelTier
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotTier = tier
			assert.Contains(t, prompt, "Evaluation strictness: strict.")
			assert.Contains(t, prompt, "Answer: Use a read-through cache.")
			return `{"ai_score": 120, "creativity": 70, "feedback": "Solid.", "suggestions": ["Mention TTLs."]}`, nil
		},
	}
	q := codingQuestion()

	eval, err := NewLLMEvaluator(client, types.StrictnessStrict, "").
		Evaluate(context.Background(), q, types.Answer{QuestionID: q.ID, Text: "Use a read-through cache.", TimeSpent: 50})
	require.NoError(t, err)

	assert.Equal(t, llm.TierAdvanced, gotTier)
	assert.Equal(t, 100, eval.AIScore)
	assert.Equal(t, 90, eval.TechnicalAccuracy)
	assert.Equal(t, 70, eval.Creativity)
	assert.Equal(t, "Solid.", eval.Feedback)
	assert.Equal(t, []string{"Mention TTLs."}, eval.Suggestions)
}

func TestLLMEvaluator_BlankAnswerSkipsCall(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			t.Fatal("blank answers should not call the LLM")
			return "", nil
		},
	}
	q := codingQuestion()

	eval, err := NewLLMEvaluator(client, "", "").Evaluate(context.Background(), q, types.Answer{QuestionID: q.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, eval.AIScore)
}

func TestLLMEvaluator_ClientError(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", errors.New("rate limited")
		},
	}
	q := codingQuestion()

	_, err := NewLLMEvaluator(client, "", "").Evaluate(context.Background(), q, types.Answer{QuestionID: q.ID, Text: "x"})

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, q.ID, evalErr.QuestionID)
}

func TestLLMRecommender_Recommend(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "scored 70%")
			assert.Contains(t, prompt, "coding=80, dsa=60")
			return `{"recommendation": "Advance.", "next_steps": "Schedule onsite."}`, nil
		},
	}
	results := types.InterviewResults{
		PercentageScore:   70,
		Passed:            true,
		CategoryBreakdown: map[types.Category]int{types.CategoryDSA: 60, types.CategoryCoding: 80},
	}

	rec, next, err := (&LLMRecommender{Client: client}).Recommend(context.Background(), results, 70)
	require.NoError(t, err)
	assert.Equal(t, "Advance.", rec)
	assert.Equal(t, "Schedule onsite.", next)
}
