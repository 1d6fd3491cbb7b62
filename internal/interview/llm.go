package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/llm"
	"github.com/jonathan/assessment-engine/internal/prompts"
	"github.com/jonathan/assessment-engine/internal/types"
)

const promptFile = "interview.json"

// generateJSON calls the job's pinned model when one is configured, otherwise the tier's model
func generateJSON(ctx context.Context, client llm.Client, prompt string, tier llm.ModelTier, model string) (string, error) {
	var (
		resp string
		err  error
	)
	if model != "" {
		resp, err = client.GenerateJSONWithModel(ctx, prompt, model)
	} else {
		resp, err = client.GenerateJSON(ctx, prompt, tier)
	}
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	return llm.CleanJSONBlock(resp), nil
}

// LLMGenerator asks an LLM for the question texts of an allocation
type LLMGenerator struct {
	Client llm.Client
	// Bank pads categories the LLM under-delivers on
	Bank *BankGenerator
}

// NewLLMGenerator creates a generator that pads from the built-in bank
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{Client: client, Bank: NewBankGenerator()}
}

type generatedQuestions struct {
	Questions []struct {
		Category string `json:"category"`
		Text     string `json:"text"`
	} `json:"questions"`
}

// Generate returns exactly alloc[c] questions per category
func (g *LLMGenerator) Generate(ctx context.Context, cfg types.JobAssessmentConfig, alloc Allocation) ([]types.Question, error) {
	if alloc.Total() == 0 {
		return []types.Question{}, nil
	}

	prompt := llm.BuildExtractionPrompt(llm.QuestionSetSchema(buildGenerationPrompt(cfg, alloc)), "")
	resp, err := generateJSON(ctx, g.Client, prompt, llm.TierStandard, cfg.AIModel)
	if err != nil {
		return nil, err
	}

	var parsed generatedQuestions
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, resp)
	}

	texts := make(map[types.Category][]string)
	for _, q := range parsed.Questions {
		c := types.Category(strings.TrimSpace(q.Category))
		text := strings.TrimSpace(q.Text)
		if !c.Valid() || text == "" || len(texts[c]) >= alloc[c] {
			continue
		}
		texts[c] = append(texts[c], text)
	}

	questions := make([]types.Question, 0, alloc.Total())
	for _, category := range types.Categories {
		got := texts[category]
		if short := alloc[category] - len(got); short > 0 {
			log.Warn().Str("category", string(category)).Int("missing", short).Msg("LLM returned too few questions, padding from bank")
		}
		for i := 0; i < alloc[category]; i++ {
			text := ""
			if i < len(got) {
				text = got[i]
			} else {
				text = bankText(category, i)
			}
			questions = append(questions, newQuestion(category, i, text, cfg.Difficulty))
		}
	}
	return questions, nil
}

func buildGenerationPrompt(cfg types.JobAssessmentConfig, alloc Allocation) string {
	parts := make([]string, 0, len(alloc))
	for _, c := range types.Categories {
		if n := alloc[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	difficulty := cfg.Difficulty
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}
	return prompts.Format(prompts.MustGet(promptFile, "generate-questions"), map[string]string{
		"Total":      strconv.Itoa(alloc.Total()),
		"Difficulty": difficulty,
		"Allocation": strings.Join(parts, ", "),
	})
}

// LLMEvaluator grades answers with an LLM
type LLMEvaluator struct {
	Client     llm.Client
	Strictness string
	Model      string
}

// NewLLMEvaluator creates an evaluator for the job's strictness and pinned model
func NewLLMEvaluator(client llm.Client, strictness, model string) *LLMEvaluator {
	return &LLMEvaluator{Client: client, Strictness: strictness, Model: model}
}

type evaluationResponse struct {
	AIScore     int      `json:"ai_score"`
	Creativity  int      `json:"creativity"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// Evaluate grades a single answer. Blank answers score zero without an LLM call.
func (e *LLMEvaluator) Evaluate(ctx context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error) {
	if strings.TrimSpace(a.Text) == "" {
		return DeriveEvaluation(q, a, 0, 0, feedbackFor(0), []string{"Provide an answer to the question."}), nil
	}

	input := fmt.Sprintf("Question: %s\n\nAnswer: %s", q.Text, a.Text)
	prompt := llm.BuildExtractionPrompt(llm.AnswerEvaluationSchema(e.buildPrompt(q, a)), input)

	tier := llm.TierLite
	if e.Strictness == types.StrictnessStrict {
		tier = llm.TierAdvanced
	}
	resp, err := generateJSON(ctx, e.Client, prompt, tier, e.Model)
	if err != nil {
		return types.QuestionEvaluation{}, &EvaluationError{QuestionID: q.ID, Cause: err}
	}

	var parsed evaluationResponse
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return types.QuestionEvaluation{}, &EvaluationError{
			QuestionID: q.ID,
			Cause:      fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, resp),
		}
	}

	return DeriveEvaluation(q, a, parsed.AIScore, parsed.Creativity, parsed.Feedback, parsed.Suggestions), nil
}

func (e *LLMEvaluator) buildPrompt(q types.Question, a types.Answer) string {
	strictness := e.Strictness
	if strictness == "" {
		strictness = types.StrictnessModerate
	}
	return prompts.Format(prompts.MustGet(promptFile, "evaluate-answer"), map[string]string{
		"Strictness": strictness,
		"Category":   string(q.Category),
		"Difficulty": q.Difficulty,
		"TimeSpent":  strconv.Itoa(a.TimeSpent),
		"TimeLimit":  strconv.Itoa(q.TimeLimit),
	})
}

// LLMRecommender writes recommendation text with an LLM
type LLMRecommender struct {
	Client llm.Client
	Model  string
}

type recommendationResponse struct {
	Recommendation string `json:"recommendation"`
	NextSteps      string `json:"next_steps"`
}

// Recommend asks the LLM for a one-sentence recommendation and next step
func (r *LLMRecommender) Recommend(ctx context.Context, results types.InterviewResults, minimumPassingScore int) (string, string, error) {
	verdict := "failed"
	if results.Passed {
		verdict = "passed"
	}

	categories := make([]string, 0, len(results.CategoryBreakdown))
	for c := range results.CategoryBreakdown {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	breakdown := make([]string, 0, len(categories))
	for _, c := range categories {
		breakdown = append(breakdown, fmt.Sprintf("%s=%d", c, results.CategoryBreakdown[types.Category(c)]))
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "summarize-interview"), map[string]string{
		"Percentage": strconv.Itoa(results.PercentageScore),
		"Minimum":    strconv.Itoa(minimumPassingScore),
		"Verdict":    verdict,
		"Breakdown":  strings.Join(breakdown, ", "),
	})

	resp, err := generateJSON(ctx, r.Client, prompt, llm.TierAdvanced, r.Model)
	if err != nil {
		return "", "", err
	}
	var parsed recommendationResponse
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return "", "", fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, resp)
	}
	return parsed.Recommendation, parsed.NextSteps, nil
}
