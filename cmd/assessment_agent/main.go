// Package main provides the entry point for the candidate assessment engine.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "assessment_agent",
	Short: "Candidate assessment engine",
	Long:  "Runs the ATS gate, typing test and AI interview for job applications and scores the results.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd.ErrOrStderr(), verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Human-readable debug logging and result boxes")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (defaults to .env and the environment)")
}

// setupLogging configures the global logger. Verbose mode switches to a console writer.
func setupLogging(out io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if verbose {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
