package typing

import (
	"math"

	"github.com/jonathan/assessment-engine/internal/types"
)

// Fraud indicator names
const (
	IndicatorFastTyping  = "unusually fast typing"
	IndicatorFocusLosses = "multiple focus losses"
	AlertRapidTyping     = "suspicious rapid typing"
)

// Rule weights
const (
	fastTypingWeight = 0.3
	focusLossWeight  = 0.2
	alertWeight      = 0.2
)

// FraudFailThreshold is the score at or above which a typing test fails regardless of speed
const FraudFailThreshold = 0.7

// burst detection: this many characters arriving within burstWindowMs of the previous keystroke
const (
	burstMinChars = 5
	burstWindowMs = 10
)

// Thresholds holds the sensitivity-dependent fraud rule limits
type Thresholds struct {
	FastIntervalMs float64
	MaxFocusLosses int
}

// ThresholdsFor returns the rule limits for a sensitivity level. Unknown levels use medium.
func ThresholdsFor(sensitivity string) Thresholds {
	switch sensitivity {
	case types.SensitivityLow:
		return Thresholds{FastIntervalMs: 35, MaxFocusLosses: 4}
	case types.SensitivityHigh:
		return Thresholds{FastIntervalMs: 70, MaxFocusLosses: 1}
	default:
		return Thresholds{FastIntervalMs: 50, MaxFocusLosses: 2}
	}
}

// FraudInput is everything the fraud rules look at
type FraudInput struct {
	Events      []types.KeystrokeEvent
	FocusLosses int
	Alerts      []string
	Sensitivity string
}

// FraudAssessment is the outcome of the fraud rules
type FraudAssessment struct {
	Score             float64  `json:"score"`
	Indicators        []string `json:"indicators"`
	AverageIntervalMs float64  `json:"average_interval_ms"`
}

// AverageInterval returns the mean inter-keystroke interval in milliseconds, 0 with no events
func AverageInterval(events []types.KeystrokeEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var sum int64
	for _, e := range events {
		sum += e.IntervalMs
	}
	return float64(sum) / float64(len(events))
}

// ScoreFraud applies the additive fraud rules. The score is rounded to two decimals and
// saturates at 1.0.
func ScoreFraud(in FraudInput) FraudAssessment {
	limits := ThresholdsFor(in.Sensitivity)
	result := FraudAssessment{
		Indicators:        []string{},
		AverageIntervalMs: AverageInterval(in.Events),
	}

	score := 0.0
	if len(in.Events) > 0 && result.AverageIntervalMs < limits.FastIntervalMs {
		score += fastTypingWeight
		result.Indicators = append(result.Indicators, IndicatorFastTyping)
	}
	if in.FocusLosses > limits.MaxFocusLosses {
		score += focusLossWeight
		result.Indicators = append(result.Indicators, IndicatorFocusLosses)
	}
	if len(in.Alerts) > 0 {
		score += alertWeight
		result.Indicators = append(result.Indicators, in.Alerts...)
	}

	result.Score = math.Min(1.0, math.Round(score*100)/100)
	return result
}
