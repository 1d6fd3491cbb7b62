package interview

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/assessment-engine/internal/types"
)

// QuestionGenerator produces the questions for an allocation
type QuestionGenerator interface {
	Generate(ctx context.Context, cfg types.JobAssessmentConfig, alloc Allocation) ([]types.Question, error)
}

// Per-question time limits in seconds
const (
	timeLimitEasy   = 180
	timeLimitMedium = 300
	timeLimitHard   = 420
)

// TimeLimitFor returns the per-question time limit for a difficulty
func TimeLimitFor(difficulty string) int {
	switch difficulty {
	case types.DifficultyEasy:
		return timeLimitEasy
	case types.DifficultyHard:
		return timeLimitHard
	default:
		return timeLimitMedium
	}
}

// BuildQuestions allocates questions per the configured distribution, generates them and
// shuffles the set for presentation.
func BuildQuestions(ctx context.Context, gen QuestionGenerator, cfg types.JobAssessmentConfig, rng *rand.Rand) ([]types.Question, error) {
	alloc := Allocate(cfg.TotalQuestions, cfg.Distribution)

	questions, err := gen.Generate(ctx, cfg, alloc)
	if err != nil {
		return nil, &GenerationError{Message: "question generation failed", Cause: err}
	}

	if rng != nil {
		rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return questions, nil
}

func newQuestion(category types.Category, index int, text, difficulty string) types.Question {
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}
	return types.Question{
		ID:         fmt.Sprintf("%s_%02d", category, index+1),
		Text:       text,
		Category:   category,
		Difficulty: difficulty,
		TimeLimit:  TimeLimitFor(difficulty),
		MaxScore:   types.MaxQuestionScore,
	}
}

// BankGenerator draws questions from the built-in question bank
type BankGenerator struct{}

// NewBankGenerator creates a generator backed by the built-in bank
func NewBankGenerator() *BankGenerator {
	return &BankGenerator{}
}

// Generate returns alloc[c] questions per category, in category order
func (g *BankGenerator) Generate(_ context.Context, cfg types.JobAssessmentConfig, alloc Allocation) ([]types.Question, error) {
	questions := make([]types.Question, 0, alloc.Total())
	for _, category := range types.Categories {
		for i := 0; i < alloc[category]; i++ {
			questions = append(questions, newQuestion(category, i, bankText(category, i), cfg.Difficulty))
		}
	}
	return questions, nil
}

// bankText returns the i-th bank prompt for a category, cycling with a variant marker
// once the bank runs out
func bankText(category types.Category, i int) string {
	texts := questionBank[category]
	if len(texts) == 0 {
		return fmt.Sprintf("Tell us about your experience with %s.", category)
	}
	text := texts[i%len(texts)]
	if round := i / len(texts); round > 0 {
		text = fmt.Sprintf("%s (follow-up %d: go deeper than your previous answer)", text, round)
	}
	return text
}

var questionBank = map[types.Category][]string{
	types.CategoryCoding: {
		"Describe how you would design a rate limiter for a public HTTP API.",
		"Walk through how you would debug a memory leak in a long-running service.",
		"How do you decide between writing a unit test and an integration test for a change?",
		"Explain how you would refactor a 2,000-line function that nobody wants to touch.",
		"Describe a code review comment you gave that changed the design of a feature.",
		"How would you make a slow database query an order of magnitude faster?",
	},
	types.CategoryDSA: {
		"Explain how a hash map handles collisions and what that means for lookup complexity.",
		"How would you find the k most frequent words in a very large log file?",
		"Compare breadth-first and depth-first search and give a problem suited to each.",
		"Describe how you would detect a cycle in a linked list using constant memory.",
		"When would you choose a heap over a sorted array?",
	},
	types.CategoryEducation: {
		"Which course or self-study topic most changed how you approach engineering problems?",
		"Describe a concept you learned recently and how you applied it.",
		"How do you keep your technical knowledge current?",
	},
	types.CategoryAchievements: {
		"Describe the project you are most proud of and your specific contribution.",
		"Tell us about a time you delivered measurable impact under a tight deadline.",
		"Describe a time you improved a process that other people depended on.",
	},
	types.CategoryProblemSolving: {
		"A production system is returning errors for 5% of requests. Walk through your first hour.",
		"Describe a problem you solved where the first obvious solution was wrong.",
		"How do you break down an ambiguous requirement into work you can estimate?",
	},
}
