package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/typing"
	"github.com/jonathan/assessment-engine/internal/types"
)

// execute runs the root command in-process and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		verbose = false
		allocateDistribution = ""
		allocateTotal = config.DefaultTotalQuestions
		typingInputFile = ""
		typingElapsed = time.Minute
		typingReference = ""
		typingFocusLosses = 0
		typingMinimumWPM = 0
		typingMinimumAcc = 0
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAllocateCommand_JSON(t *testing.T) {
	out, err := execute(t, "allocate", "--total", "10", "--distribution", `{"coding": 60, "dsa": 40}`)
	require.NoError(t, err)

	var body struct {
		Allocation map[types.Category]int `json:"allocation"`
		Total      int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, map[types.Category]int{types.CategoryCoding: 6, types.CategoryDSA: 4}, body.Allocation)
	assert.Equal(t, 10, body.Total)
}

func TestAllocateCommand_InvalidDistributionUsesDefault(t *testing.T) {
	out, err := execute(t, "allocate", "-n", "20", "-d", `{"coding": "lots"}`)
	require.NoError(t, err)

	var body struct {
		Distribution types.Distribution `json:"distribution"`
		Total        int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, types.DefaultDistribution(), body.Distribution)
	assert.Equal(t, 20, body.Total)
}

func TestAllocateCommand_Verbose(t *testing.T) {
	out, err := execute(t, "allocate", "-n", "10", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "QUESTION ALLOCATION")
	assert.Contains(t, out, "problem_solving")
}

func TestAllocateCommand_NegativeTotal(t *testing.T) {
	_, err := execute(t, "allocate", "--total", "-1")
	assert.Error(t, err)
}

func TestScoreTypingCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.txt")
	require.NoError(t, os.WriteFile(path, []byte(typing.ReferenceText(nil)[:150]), 0o600))

	out, err := execute(t, "score-typing", "--in", path, "--elapsed", "30s", "--min-wpm", "40", "--min-accuracy", "95")
	require.NoError(t, err)

	var result types.TypingTestResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	// 150 correct characters in half a minute
	assert.Equal(t, 60, result.WPM)
	assert.Equal(t, 100, result.Accuracy)
	assert.True(t, result.Passed)
	assert.Equal(t, types.TypingCompletedBySubmitted, result.CompletedBy)
}

func TestScoreTypingCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "score-typing", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}

func TestScoreTyping_FullText(t *testing.T) {
	reference := "hello world"

	result := scoreTyping(reference, reference, 6*time.Second, 0, 10, 90)

	assert.Equal(t, types.TypingCompletedByFullText, result.CompletedBy)
	assert.Equal(t, 22, result.WPM)
	assert.Equal(t, 6, result.TimeSpent)
	assert.True(t, result.Passed)
}

func TestScoreTyping_FocusLossesRaiseFraudScore(t *testing.T) {
	reference := typing.ReferenceText(nil)

	result := scoreTyping(reference[:100], reference, time.Minute, 4, 0, 0)

	assert.Greater(t, result.FraudScore, 0.0)
	assert.NotEmpty(t, result.FraudIndicators)
}
