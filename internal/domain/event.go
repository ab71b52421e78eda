package domain

import (
	"context"
	"math"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Display labels for the hard prediction.
const (
	FloodYes = "Yes"
	FloodNo  = "No"
)

// RiskAssessment is the scored form of a FeatureRow.
type RiskAssessment struct {
	Station         string    `json:"station"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Label           int       `json:"label"`
	Probability     float64   `json:"probability"`
	FloodPrediction string    `json:"flood_prediction"`
	RiskPercentage  float64   `json:"risk_percentage"`
	AssessedAt      time.Time `json:"assessed_at"`
}

// NewRiskAssessment builds the display form of a prediction and stamps it with
// the current time.
func NewRiskAssessment(row FeatureRow, label int, probability float64) RiskAssessment {
	return RiskAssessment{
		Station:         row.StationName,
		Year:            int(row.Year),
		Month:           int(row.Month),
		Label:           label,
		Probability:     probability,
		FloodPrediction: FloodLabel(label),
		RiskPercentage:  RiskPercentage(probability),
		AssessedAt:      clock.Now().UTC(),
	}
}

// FloodLabel maps a hard label to "Yes" or "No".
func FloodLabel(label int) string {
	if label == 1 {
		return FloodYes
	}
	return FloodNo
}

// RiskPercentage converts a probability to a percentage rounded to 2 decimal
// places, e.g. 0.8731 -> 87.31.
func RiskPercentage(probability float64) float64 {
	return RoundTo(probability*100, 2)
}

// RoundTo rounds v to the given number of decimal places, half away from zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
