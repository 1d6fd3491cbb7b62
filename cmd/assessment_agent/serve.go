package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-engine/internal/assessment"
	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/db"
	"github.com/jonathan/assessment-engine/internal/events"
	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/llm"
	"github.com/jonathan/assessment-engine/internal/server"
	"github.com/jonathan/assessment-engine/internal/types"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP API",
	Long:  `Start an HTTP server that runs assessments for a presentation layer and writes results to PostgreSQL.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create the assessment tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if !verbose {
		zerolog.SetGlobalLevel(cfg.Level())
	}

	port := servePort
	if port == 0 {
		port, err = strconv.Atoi(cfg.Port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
		}
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	deps := assessment.Deps{Store: database, Publisher: events.NopPublisher{}}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		deps.Generator = interview.NewLLMGenerator(client)
		deps.EvaluatorFor = func(job types.JobAssessmentConfig) interview.AnswerEvaluator {
			return &interview.FallbackEvaluator{
				Primary:  interview.NewLLMEvaluator(client, job.EvaluationStrictness, job.AIModel),
				Fallback: interview.NewHeuristicEvaluator(job.EvaluationStrictness),
			}
		}
		deps.Recommender = &interview.LLMRecommender{Client: client}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, using the question bank and heuristic scoring")
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewRabbitMQ(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
		deps.Publisher = publisher
	}

	srv := server.New(server.Config{Port: port}, deps,
		assessment.WithInterviewDelay(cfg.InterviewDelay),
		assessment.WithEvaluationConcurrency(cfg.EvaluationConcurrency),
		assessment.WithOnComplete(logOutcome),
	)
	return srv.Start()
}

func logOutcome(o assessment.Outcome) {
	event := log.Info().
		Bool("passed", o.Passed).
		Str("status", string(o.Status)).
		Str("failed_phase", string(o.FailedPhase)).
		Time("completed_at", time.Now())
	if o.Score != nil {
		event = event.Int("score", *o.Score)
	}
	event.Msg("assessment outcome")
}
