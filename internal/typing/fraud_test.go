package typing

import (
	"testing"

	"github.com/jonathan/assessment-engine/internal/types"
	"github.com/stretchr/testify/assert"
)

func eventsWithInterval(n int, intervalMs int64) []types.KeystrokeEvent {
	events := make([]types.KeystrokeEvent, n)
	for i := range events {
		events[i] = types.KeystrokeEvent{Key: "a", IntervalMs: intervalMs}
	}
	return events
}

func TestScoreFraud_FastTypingAndFocusLoss(t *testing.T) {
	result := ScoreFraud(FraudInput{
		Events:      eventsWithInterval(20, 30),
		FocusLosses: 3,
	})

	assert.InDelta(t, 0.50, result.Score, 0.0001)
	assert.Equal(t, []string{IndicatorFastTyping, IndicatorFocusLosses}, result.Indicators)
	assert.InDelta(t, 30.0, result.AverageIntervalMs, 0.0001)
}

func TestScoreFraud_Clean(t *testing.T) {
	result := ScoreFraud(FraudInput{
		Events:      eventsWithInterval(20, 180),
		FocusLosses: 2,
	})

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Indicators)
}

func TestScoreFraud_NoEventsDoesNotFlagSpeed(t *testing.T) {
	result := ScoreFraud(FraudInput{})
	assert.Equal(t, 0.0, result.Score)
	assert.NotNil(t, result.Indicators)
}

func TestScoreFraud_AlertsAddFlatWeightOnce(t *testing.T) {
	result := ScoreFraud(FraudInput{
		Events: eventsWithInterval(5, 200),
		Alerts: []string{AlertRapidTyping, "paste detected"},
	})

	assert.InDelta(t, 0.2, result.Score, 0.0001)
	assert.Equal(t, []string{AlertRapidTyping, "paste detected"}, result.Indicators)
}

func TestScoreFraud_AllRules(t *testing.T) {
	result := ScoreFraud(FraudInput{
		Events:      eventsWithInterval(10, 5),
		FocusLosses: 5,
		Alerts:      []string{AlertRapidTyping},
	})

	assert.InDelta(t, 0.7, result.Score, 0.0001)
	assert.GreaterOrEqual(t, result.Score, FraudFailThreshold-0.0001)
	assert.LessOrEqual(t, result.Score, 1.0)
}

func TestThresholdsFor(t *testing.T) {
	tests := []struct {
		sensitivity string
		want        Thresholds
	}{
		{types.SensitivityLow, Thresholds{FastIntervalMs: 35, MaxFocusLosses: 4}},
		{types.SensitivityMedium, Thresholds{FastIntervalMs: 50, MaxFocusLosses: 2}},
		{types.SensitivityHigh, Thresholds{FastIntervalMs: 70, MaxFocusLosses: 1}},
		{"", Thresholds{FastIntervalMs: 50, MaxFocusLosses: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.sensitivity, func(t *testing.T) {
			assert.Equal(t, tt.want, ThresholdsFor(tt.sensitivity))
		})
	}
}

func TestScoreFraud_HighSensitivityFlagsSingleExtraBlur(t *testing.T) {
	result := ScoreFraud(FraudInput{
		Events:      eventsWithInterval(10, 100),
		FocusLosses: 2,
		Sensitivity: types.SensitivityHigh,
	})
	assert.InDelta(t, 0.2, result.Score, 0.0001)
	assert.Equal(t, []string{IndicatorFocusLosses}, result.Indicators)
}
