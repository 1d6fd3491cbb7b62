package interview

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-engine/internal/types"
)

func TestTimeLimitFor(t *testing.T) {
	assert.Equal(t, 180, TimeLimitFor(types.DifficultyEasy))
	assert.Equal(t, 300, TimeLimitFor(types.DifficultyMedium))
	assert.Equal(t, 420, TimeLimitFor(types.DifficultyHard))
	assert.Equal(t, 300, TimeLimitFor(""))
}

func TestBankGenerator_Generate(t *testing.T) {
	cfg := types.JobAssessmentConfig{Difficulty: types.DifficultyHard}
	alloc := Allocation{types.CategoryCoding: 2, types.CategoryEducation: 1}

	questions, err := NewBankGenerator().Generate(context.Background(), cfg, alloc)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, "coding_01", questions[0].ID)
	assert.Equal(t, "coding_02", questions[1].ID)
	assert.Equal(t, "education_01", questions[2].ID)
	for _, q := range questions {
		assert.Equal(t, types.DifficultyHard, q.Difficulty)
		assert.Equal(t, 420, q.TimeLimit)
		assert.Equal(t, types.MaxQuestionScore, q.MaxScore)
		assert.NotEmpty(t, q.Text)
	}
}

func TestBankGenerator_CyclesWhenBankRunsOut(t *testing.T) {
	alloc := Allocation{types.CategoryEducation: len(questionBank[types.CategoryEducation]) + 1}

	questions, err := NewBankGenerator().Generate(context.Background(), types.JobAssessmentConfig{}, alloc)
	require.NoError(t, err)

	last := questions[len(questions)-1]
	assert.Contains(t, last.Text, questionBank[types.CategoryEducation][0])
	assert.Contains(t, last.Text, "follow-up 1")

	seen := make(map[string]bool)
	for _, q := range questions {
		assert.False(t, seen[q.Text], "duplicate question text %q", q.Text)
		seen[q.Text] = true
	}
}

func TestBuildQuestions_MatchesAllocation(t *testing.T) {
	cfg := types.JobAssessmentConfig{TotalQuestions: 20, Distribution: types.DefaultDistribution()}

	questions, err := BuildQuestions(context.Background(), NewBankGenerator(), cfg, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.Len(t, questions, 20)

	counts := make(map[types.Category]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	assert.Equal(t, 6, counts[types.CategoryCoding])
	assert.Equal(t, 5, counts[types.CategoryDSA])
	assert.Equal(t, 3, counts[types.CategoryProblemSolving])
}

func TestBuildQuestions_NoShuffleWithoutRand(t *testing.T) {
	cfg := types.JobAssessmentConfig{TotalQuestions: 10, Distribution: types.DefaultDistribution()}

	questions, err := BuildQuestions(context.Background(), NewBankGenerator(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "coding_01", questions[0].ID)
}

type generatorFunc func(ctx context.Context, cfg types.JobAssessmentConfig, alloc Allocation) ([]types.Question, error)

func (f generatorFunc) Generate(ctx context.Context, cfg types.JobAssessmentConfig, alloc Allocation) ([]types.Question, error) {
	return f(ctx, cfg, alloc)
}

func TestBuildQuestions_WrapsGeneratorError(t *testing.T) {
	failing := generatorFunc(func(context.Context, types.JobAssessmentConfig, Allocation) ([]types.Question, error) {
		return nil, errors.New("model unavailable")
	})

	_, err := BuildQuestions(context.Background(), failing, types.JobAssessmentConfig{TotalQuestions: 5}, nil)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorContains(t, err, "model unavailable")
}
