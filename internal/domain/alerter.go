package domain

import "context"

// Alerter notifies a third party about a flood prediction.
type Alerter interface {
	Alert(ctx context.Context, assessment RiskAssessment) error
}
