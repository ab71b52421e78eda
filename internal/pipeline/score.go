package pipeline

import (
	"context"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// RowAssessor assesses one parsed feature row.
type RowAssessor interface {
	Assess(ctx context.Context, row domain.FeatureRow) (domain.RiskAssessment, error)
}

// ObservationScorer implements Transformer by parsing each message value as a
// feature row and assessing it.
type ObservationScorer struct {
	assessor RowAssessor
}

// NewObservationScorer creates an ObservationScorer.
func NewObservationScorer(assessor RowAssessor) *ObservationScorer {
	return &ObservationScorer{assessor: assessor}
}

// Transform scores a raw observation message.
func (s *ObservationScorer) Transform(ctx context.Context, raw domain.RawEvent) (domain.RiskAssessment, error) {
	row, err := domain.ParseFeatureRow(raw.Value)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	return s.assessor.Assess(ctx, row)
}
