package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-engine/internal/observability"
	"github.com/jonathan/assessment-engine/internal/typing"
	"github.com/jonathan/assessment-engine/internal/types"
)

var (
	typingInputFile   string
	typingReference   string
	typingElapsed     time.Duration
	typingMinimumWPM  int
	typingMinimumAcc  int
	typingFocusLosses int
)

var scoreTypingCmd = &cobra.Command{
	Use:   "score-typing",
	Short: "Score a typed text against a reference passage",
	Long:  "Compute WPM, accuracy and pass/fail for a finished typing attempt. The reference defaults to the first built-in passage.",
	RunE:  runScoreTyping,
}

func init() {
	scoreTypingCmd.Flags().StringVarP(&typingInputFile, "in", "i", "", "Path to the typed text (required)")
	scoreTypingCmd.Flags().StringVar(&typingReference, "reference", "", "Reference text (defaults to the first built-in passage)")
	scoreTypingCmd.Flags().DurationVar(&typingElapsed, "elapsed", time.Minute, "Time the candidate spent typing")
	scoreTypingCmd.Flags().IntVar(&typingMinimumWPM, "min-wpm", 0, "Minimum WPM to pass")
	scoreTypingCmd.Flags().IntVar(&typingMinimumAcc, "min-accuracy", 0, "Minimum accuracy percentage to pass")
	scoreTypingCmd.Flags().IntVar(&typingFocusLosses, "focus-losses", 0, "Window focus losses during the attempt")
	_ = scoreTypingCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(scoreTypingCmd)
}

func runScoreTyping(cmd *cobra.Command, _ []string) error {
	input, err := os.ReadFile(typingInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if typingElapsed <= 0 {
		return fmt.Errorf("--elapsed must be positive")
	}

	reference := typingReference
	if reference == "" {
		reference = typing.ReferenceText(nil)
	}

	result := scoreTyping(string(input), reference, typingElapsed, typingFocusLosses,
		typingMinimumWPM, typingMinimumAcc)

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTypingResult(&result)
		return nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// scoreTyping replays a finished attempt through a session so the result carries the
// same pass rules as a live test
func scoreTyping(input, reference string, elapsed time.Duration, focusLosses, minWPM, minAccuracy int) types.TypingTestResult {
	session := typing.NewSession(reference, typing.SessionOptions{
		Duration:        elapsed,
		MinimumWPM:      minWPM,
		MinimumAccuracy: minAccuracy,
		FraudDetection:  focusLosses > 0,
		Sensitivity:     types.SensitivityMedium,
	})
	start := time.Unix(0, 0).UTC()
	session.Start(start)
	for i := 0; i < focusLosses; i++ {
		session.FocusLost()
	}
	end := start.Add(elapsed)
	if session.Input(input, end) {
		result, _ := session.Result()
		return result
	}
	return session.Submit(end)
}
