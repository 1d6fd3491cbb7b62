// Package config loads process configuration and normalizes per-job assessment settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is the process configuration for the assessment service.
// Values come from environment variables, optionally seeded by a config file.
type Config struct {
	Port         string
	DatabaseURL  string
	GeminiAPIKey string

	AMQPURL   string
	AMQPQueue string

	// InterviewDelay is the pause between a passed typing test and the interview
	InterviewDelay        time.Duration
	EvaluationConcurrency int
	LogLevel              string
}

// Environment keys
const (
	KeyPort                  = "PORT"
	KeyDatabaseURL           = "DATABASE_URL"
	KeyGeminiAPIKey          = "GEMINI_API_KEY"
	KeyAMQPURL               = "AMQP_URL"
	KeyAMQPQueue             = "AMQP_QUEUE"
	KeyInterviewDelay        = "INTERVIEW_DELAY"
	KeyEvaluationConcurrency = "EVALUATION_CONCURRENCY"
	KeyLogLevel              = "LOG_LEVEL"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyAMQPQueue, "assessment.completed")
	v.SetDefault(KeyInterviewDelay, 2*time.Second)
	v.SetDefault(KeyEvaluationConcurrency, 4)
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads configuration from the environment. When path is set the file is read
// first (any format viper understands); otherwise a .env in the working directory is
// used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			log.Debug().Err(err).Msg("no .env config file, using environment only")
		}
	}
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:                  v.GetString(KeyPort),
		DatabaseURL:           v.GetString(KeyDatabaseURL),
		GeminiAPIKey:          v.GetString(KeyGeminiAPIKey),
		AMQPURL:               v.GetString(KeyAMQPURL),
		AMQPQueue:             v.GetString(KeyAMQPQueue),
		InterviewDelay:        v.GetDuration(KeyInterviewDelay),
		EvaluationConcurrency: v.GetInt(KeyEvaluationConcurrency),
		LogLevel:              strings.ToLower(v.GetString(KeyLogLevel)),
	}
}

// Validate checks that the configuration has valid values.
// DATABASE_URL is checked by the commands that need it.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("config error: %s must not be empty", KeyPort)
	}
	if c.InterviewDelay < 0 {
		return fmt.Errorf("config error: %s must be non-negative", KeyInterviewDelay)
	}
	if c.EvaluationConcurrency <= 0 {
		return fmt.Errorf("config error: %s must be positive", KeyEvaluationConcurrency)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid %s %q", KeyLogLevel, c.LogLevel)
	}
	if c.AMQPURL != "" && c.AMQPQueue == "" {
		return fmt.Errorf("config error: %s is required when %s is set", KeyAMQPQueue, KeyAMQPURL)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
