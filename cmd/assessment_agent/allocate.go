package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/observability"
)

var (
	allocateTotal        int
	allocateDistribution string
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Show how many questions each category receives",
	Long:  "Split an interview's question count across categories using a job's distribution JSON. An invalid distribution falls back to the default split.",
	RunE:  runAllocate,
}

func init() {
	allocateCmd.Flags().IntVarP(&allocateTotal, "total", "n", config.DefaultTotalQuestions, "Total number of questions")
	allocateCmd.Flags().StringVarP(&allocateDistribution, "distribution", "d", "", `Distribution JSON, e.g. {"coding": 60, "dsa": 40}`)
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(cmd *cobra.Command, _ []string) error {
	if allocateTotal < 0 {
		return fmt.Errorf("--total must not be negative")
	}

	distribution := config.ParseDistribution([]byte(allocateDistribution))
	alloc := interview.Allocate(allocateTotal, distribution)

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintAllocation(distribution, alloc)
		return nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"distribution": distribution,
		"allocation":   alloc,
		"total":        alloc.Total(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
