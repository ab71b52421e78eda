package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

// Scorer produces a label and probability for one feature row.
type Scorer interface {
	Predict(row domain.FeatureRow) (int, float64, error)
}

// Assessor turns predictions into user-facing risk assessments and raises
// alerts for predicted floods.
type Assessor struct {
	scorer  Scorer
	alerter domain.Alerter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAssessor creates an Assessor. Pass a nil alerter to disable alerts.
func NewAssessor(scorer Scorer, alerter domain.Alerter, logger *slog.Logger, metrics *observability.Metrics) *Assessor {
	return &Assessor{
		scorer:  scorer,
		alerter: alerter,
		logger:  logger,
		metrics: metrics,
	}
}

// Assess scores row. Alert delivery failures are logged and counted but do
// not fail the assessment.
func (a *Assessor) Assess(ctx context.Context, row domain.FeatureRow) (domain.RiskAssessment, error) {
	start := time.Now()
	label, probability, err := a.scorer.Predict(row)
	a.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.Predictions.WithLabelValues(observability.OutcomeError).Inc()
		return domain.RiskAssessment{}, err
	}

	assessment := domain.NewRiskAssessment(row, label, probability)
	if label == 1 {
		a.metrics.Predictions.WithLabelValues(observability.OutcomeFlood).Inc()
		a.alert(ctx, assessment)
	} else {
		a.metrics.Predictions.WithLabelValues(observability.OutcomeNoFlood).Inc()
	}

	a.logger.Debug("risk assessed",
		"station", assessment.Station,
		"flood_prediction", assessment.FloodPrediction,
		"risk_percentage", assessment.RiskPercentage,
	)
	return assessment, nil
}

func (a *Assessor) alert(ctx context.Context, assessment domain.RiskAssessment) {
	if a.alerter == nil {
		return
	}
	if err := a.alerter.Alert(ctx, assessment); err != nil {
		a.metrics.Alerts.WithLabelValues(observability.AlertFailed).Inc()
		a.logger.Warn("flood alert failed",
			"error", err,
			"station", assessment.Station,
		)
		return
	}
	a.metrics.Alerts.WithLabelValues(observability.AlertSent).Inc()
}

// IsRejected reports whether err is caused by the request rather than the
// service: a malformed row or an unknown station.
func IsRejected(err error) bool {
	return errors.Is(err, domain.ErrDataFormat) || errors.Is(err, domain.ErrUnknownCategory)
}
