package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/flood-risk-service/internal/artifact"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
)

// ProbabilityPlaces is the rounding applied to returned probabilities.
const ProbabilityPlaces = 4

// Predictor scores raw feature rows with a loaded artifact set. It holds no
// mutable state and is safe for concurrent use.
type Predictor struct {
	encoder *ml.LabelEncoder
	scaler  *ml.StandardScaler
	model   *ml.Forest
}

// NewPredictor checks that the three artifacts agree on the feature width and
// that every tree of the model is well formed.
func NewPredictor(set artifact.Set) (*Predictor, error) {
	if set.Encoder == nil || set.Scaler == nil || set.Model == nil {
		return nil, errors.New("artifact set is incomplete")
	}
	if set.Encoder.Len() == 0 {
		return nil, fmt.Errorf("%w: encoder has no stations", domain.ErrDataFormat)
	}
	if w := set.Scaler.Width(); w != domain.NumFeatures {
		return nil, fmt.Errorf("%w: scaler was fitted on %d columns, expected %d", domain.ErrDataFormat, w, domain.NumFeatures)
	}
	if w := set.Model.NFeatures; w != domain.NumFeatures {
		return nil, fmt.Errorf("%w: model was fitted on %d columns, expected %d", domain.ErrDataFormat, w, domain.NumFeatures)
	}
	if err := set.Model.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{encoder: set.Encoder, scaler: set.Scaler, model: set.Model}, nil
}

// Predict returns the flood label and the class-1 probability rounded to
// four decimal places.
func (p *Predictor) Predict(row domain.FeatureRow) (int, float64, error) {
	x, err := p.encode(row)
	if err != nil {
		return 0, 0, err
	}
	scaled, err := p.scaler.Transform(x)
	if err != nil {
		return 0, 0, err
	}
	label, probability, err := p.model.Predict(scaled)
	if err != nil {
		return 0, 0, err
	}
	return label, domain.RoundTo(probability, ProbabilityPlaces), nil
}

func (p *Predictor) encode(row domain.FeatureRow) ([]float64, error) {
	code, err := p.encoder.Transform(row.StationName)
	if err != nil {
		return nil, err
	}
	return append([]float64{float64(code)}, row.Numeric()...), nil
}

// Stations returns the station names the model knows, sorted.
func (p *Predictor) Stations() []string {
	return append([]string(nil), p.encoder.Classes...)
}

// CheckReadiness always succeeds: a Predictor only exists once its artifacts
// have loaded.
func (p *Predictor) CheckReadiness(_ context.Context) error {
	return nil
}
