package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewRiskAssessment(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2025, time.July, 14, 9, 30, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	row := FeatureRow{StationName: "Barisal", Year: 2025, Month: 7}

	flood := NewRiskAssessment(row, 1, 0.8731)
	assert.Equal(t, "Barisal", flood.Station)
	assert.Equal(t, 2025, flood.Year)
	assert.Equal(t, 7, flood.Month)
	assert.Equal(t, FloodYes, flood.FloodPrediction)
	assert.InDelta(t, 87.31, flood.RiskPercentage, 1e-9)
	assert.Equal(t, fakeClock.Now(), flood.AssessedAt)

	dry := NewRiskAssessment(row, 0, 0.12)
	assert.Equal(t, FloodNo, dry.FloodPrediction)
	assert.InDelta(t, 12.0, dry.RiskPercentage, 1e-9)
}

func TestRiskPercentage(t *testing.T) {
	cases := []struct {
		probability float64
		want        float64
	}{
		{0, 0},
		{1, 100},
		{0.5, 50},
		{0.8731, 87.31},
		{0.0001, 0.01},
		{0.33, 33},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, RiskPercentage(tc.probability), 1e-9, "probability %v", tc.probability)
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.1235, RoundTo(0.123456, 4))
	assert.Equal(t, 0.12, RoundTo(0.123456, 2))
	assert.Equal(t, 1.0, RoundTo(0.99996, 4))
	assert.Equal(t, 0.0, RoundTo(0.00004, 4))
}
