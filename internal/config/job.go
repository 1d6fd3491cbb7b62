package config

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/schemas"
	"github.com/jonathan/assessment-engine/internal/types"
)

// Job config defaults applied by NormalizeJobConfig
const (
	DefaultTypingDurationSeconds = 60
	DefaultTotalQuestions        = 10
)

// ParseDistribution parses a stored question distribution. Missing, malformed or
// schema-invalid input yields the default distribution.
func ParseDistribution(raw []byte) types.Distribution {
	if len(raw) == 0 || string(raw) == "null" {
		return types.DefaultDistribution()
	}
	if err := schemas.Validate(schemas.DistributionSchema, raw); err != nil {
		log.Warn().Err(err).Msg("invalid question distribution, using default")
		return types.DefaultDistribution()
	}

	var dist types.Distribution
	if err := json.Unmarshal(raw, &dist); err != nil {
		log.Warn().Err(err).Msg("malformed question distribution, using default")
		return types.DefaultDistribution()
	}
	if dist.Total() == 0 {
		log.Warn().Msg("question distribution is all zero, using default")
		return types.DefaultDistribution()
	}
	return dist
}

// NormalizeJobConfig validates cfg and fills defaults for unset fields
func NormalizeJobConfig(cfg types.JobAssessmentConfig) (types.JobAssessmentConfig, error) {
	if err := cfg.Validate(); err != nil {
		return types.JobAssessmentConfig{}, fmt.Errorf("invalid job assessment config: %w", err)
	}

	if cfg.TypingDurationSeconds == 0 {
		cfg.TypingDurationSeconds = DefaultTypingDurationSeconds
	}
	if cfg.TotalQuestions == 0 {
		cfg.TotalQuestions = DefaultTotalQuestions
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = types.DifficultyMedium
	}
	if cfg.EvaluationStrictness == "" {
		cfg.EvaluationStrictness = types.StrictnessModerate
	}
	if cfg.FraudSensitivity == "" {
		cfg.FraudSensitivity = types.SensitivityMedium
	}

	dist := make(types.Distribution, len(cfg.Distribution))
	for c, pct := range cfg.Distribution {
		if !c.Valid() || pct < 0 {
			log.Warn().Str("category", string(c)).Int("percent", pct).Msg("dropping invalid distribution entry")
			continue
		}
		dist[c] = pct
	}
	if dist.Total() == 0 {
		dist = types.DefaultDistribution()
	}
	cfg.Distribution = dist

	return cfg, nil
}
