package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-engine/internal/config"
	"github.com/jonathan/assessment-engine/internal/events"
)

var watchEventsCmd = &cobra.Command{
	Use:   "watch-events",
	Short: "Print assessment completion events from the queue",
	Long:  "Consume completion events from AMQP_QUEUE and print each one as a JSON line until interrupted.",
	RunE:  runWatchEvents,
}

func init() {
	rootCmd.AddCommand(watchEventsCmd)
}

func runWatchEvents(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL environment variable is required")
	}

	consumer, err := events.NewRabbitMQ(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.AMQPQueue).Msg("watching completion events")
	out := cmd.OutOrStdout()
	err = consumer.Consume(ctx, func(event events.CompletedEvent) error {
		line, err := json.Marshal(event)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(line))
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
