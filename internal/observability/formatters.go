// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/assessment-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAllocation outputs the per-category question counts of an interview.
func (p *Printer) PrintAllocation(distribution types.Distribution, allocation map[types.Category]int) {
	var sb strings.Builder

	total := 0
	for _, category := range types.Categories {
		pct := distribution[category]
		count := allocation[category]
		total += count
		if pct == 0 && count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-16s %3d%%  →  %d\n", category, pct, count))
	}
	sb.WriteString(fmt.Sprintf("\nTotal questions: %d", total))

	p.printBox("QUESTION ALLOCATION", sb.String())
}

// PrintTypingResult outputs the metrics and verdict of a typing test.
func (p *Printer) PrintTypingResult(result *types.TypingTestResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("WPM:          %d\n", result.WPM))
	sb.WriteString(fmt.Sprintf("Accuracy:     %d%%\n", result.Accuracy))
	sb.WriteString(fmt.Sprintf("Characters:   %d (%d errors, %d corrections)\n",
		result.CharactersTyped, result.ErrorsMade, result.CorrectionsMade))
	sb.WriteString(fmt.Sprintf("Time spent:   %ds\n", result.TimeSpent))
	if result.CompletedBy != "" {
		sb.WriteString(fmt.Sprintf("Ended by:     %s\n", result.CompletedBy))
	}
	sb.WriteString(fmt.Sprintf("Fraud score:  %.2f\n", result.FraudScore))
	for _, indicator := range result.FraudIndicators {
		sb.WriteString(fmt.Sprintf("  ⚠ %s\n", indicator))
	}
	sb.WriteString(fmt.Sprintf("\nResult: %s", verdict(result.Passed)))

	p.printBox("TYPING TEST", sb.String())
}

// PrintEvaluation outputs a single scored answer.
func (p *Printer) PrintEvaluation(eval *types.QuestionEvaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n", eval.QuestionID))
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n\n", eval.AIScore))
	sb.WriteString(fmt.Sprintf("  Technical accuracy: %d\n", eval.TechnicalAccuracy))
	sb.WriteString(fmt.Sprintf("  Problem solving:    %d\n", eval.ProblemSolving))
	sb.WriteString(fmt.Sprintf("  Communication:      %d\n", eval.Communication))
	sb.WriteString(fmt.Sprintf("  Time management:    %d\n", eval.TimeManagement))
	sb.WriteString(fmt.Sprintf("  Creativity:         %d\n", eval.Creativity))
	if eval.Feedback != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", eval.Feedback))
	}

	count := min(len(eval.Suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", eval.Suggestions[i]))
	}

	p.printBox("ANSWER EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterviewResults outputs the aggregated interview score and category breakdown.
func (p *Printer) PrintInterviewResults(results *types.InterviewResults) {
	if results == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:     %d%%\n", results.PercentageScore))
	sb.WriteString(fmt.Sprintf("Answered:  %d of %d\n", results.QuestionsCompleted, results.QuestionsAttempted))
	sb.WriteString(fmt.Sprintf("Time:      %ds total, %ds average, %d auto-submitted\n\n",
		results.TimeAnalysis.TotalTimeSpent,
		results.TimeAnalysis.AverageTimePerQuestion,
		results.TimeAnalysis.QuestionsAutoSubmitted))

	sb.WriteString("By category:\n")
	for _, category := range types.Categories {
		if score, ok := results.CategoryBreakdown[category]; ok {
			sb.WriteString(fmt.Sprintf("  %-16s %3d\n", category, score))
		}
	}

	// Weakest answers first
	evals := append([]types.QuestionEvaluation(nil), results.Evaluations...)
	sort.SliceStable(evals, func(i, j int) bool { return evals[i].AIScore < evals[j].AIScore })
	if len(evals) > 0 {
		sb.WriteString("\nLowest scores:\n")
		count := min(len(evals), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %-16s %3d\n", evals[i].QuestionID, evals[i].AIScore))
		}
	}

	if results.Recommendation != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", results.Recommendation))
	}
	sb.WriteString(fmt.Sprintf("\nResult: %s", verdict(results.Passed)))

	p.printBox("AI INTERVIEW", sb.String())
}

func verdict(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}
