package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/db"
	"github.com/jonathan/assessment-engine/internal/observability"
)

var resultsApplicationID string

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print the stored assessment results of an application",
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&resultsApplicationID, "application-id", "", "Application ID (required)")
	_ = resultsCmd.MarkFlagRequired("application-id")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	applicationID, err := uuid.Parse(resultsApplicationID)
	if err != nil {
		return fmt.Errorf("invalid application ID: %w", err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	app, err := database.FetchApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("application not found: %s", applicationID)
	}
	typingResults, err := database.ListTypingResults(ctx, applicationID)
	if err != nil {
		return err
	}
	interviewResult, err := database.LatestInterviewResult(ctx, applicationID)
	if err != nil {
		return err
	}

	if verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		for i := range typingResults {
			printer.PrintTypingResult(&typingResults[i].Result)
		}
		if interviewResult != nil {
			printer.PrintInterviewResults(&interviewResult.Results)
		}
		return nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"application": app,
		"typing":      typingResults,
		"interview":   interviewResult,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
