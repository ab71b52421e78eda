package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
)

// ScalerFit selects the rows the scaler statistics are computed on.
type ScalerFit string

const (
	// ScalerFitAll fits on every row, including the later test partition.
	// This reproduces how the deployed model was trained.
	ScalerFitAll ScalerFit = "all"
	// ScalerFitTrain fits on the train partition only.
	ScalerFitTrain ScalerFit = "train"
)

// Split parameters used for every training run.
const (
	TestFraction = 0.2
	SplitSeed    = 42
)

// PreprocessorSink persists the fitted encoder and scaler.
type PreprocessorSink interface {
	SavePreprocessors(enc *ml.LabelEncoder, sc *ml.StandardScaler) error
}

// Split is the scaled, partitioned training corpus.
type Split struct {
	TrainX [][]float64
	TestX  [][]float64
	TrainY []int
	TestY  []int
}

// Preprocessor fits the station encoder and feature scaler on a corpus.
type Preprocessor struct {
	sink   PreprocessorSink
	fit    ScalerFit
	logger *slog.Logger
}

// NewPreprocessor creates a Preprocessor. An empty fit mode means ScalerFitAll.
func NewPreprocessor(sink PreprocessorSink, fit ScalerFit, logger *slog.Logger) *Preprocessor {
	if fit == "" {
		fit = ScalerFitAll
	}
	return &Preprocessor{sink: sink, fit: fit, logger: logger}
}

// FitTransformSplit encodes station names, standardizes the 17 feature
// columns, splits 80/20, and persists the encoder and scaler. Nothing is
// written unless every step before persistence succeeds.
func (p *Preprocessor) FitTransformSplit(ctx context.Context, corpus *dataset.Corpus) (Split, error) {
	if err := ctx.Err(); err != nil {
		return Split{}, err
	}

	corpus = corpus.Without(domain.ColSerial)
	if err := corpus.Require(domain.ColLabel); err != nil {
		return Split{}, err
	}
	if err := corpus.Require(domain.FeatureColumns...); err != nil {
		return Split{}, err
	}
	if corpus.Len() == 0 {
		return Split{}, fmt.Errorf("%w: corpus has no rows", domain.ErrDataFormat)
	}

	stations, err := corpus.Strings(domain.ColStationName)
	if err != nil {
		return Split{}, err
	}
	enc := ml.FitLabelEncoder(stations)
	codes, err := enc.TransformAll(stations)
	if err != nil {
		return Split{}, err
	}

	x := make([][]float64, corpus.Len())
	for i := range x {
		x[i] = make([]float64, domain.NumFeatures)
		x[i][0] = float64(codes[i])
	}
	for j, col := range domain.NumericColumns() {
		values, err := corpus.Floats(col)
		if err != nil {
			return Split{}, err
		}
		for i, v := range values {
			x[i][j+1] = v
		}
	}

	y, err := corpus.Ints(domain.ColLabel)
	if err != nil {
		return Split{}, err
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return Split{}, fmt.Errorf("%w: %s at row %d is %d, expected 0 or 1", domain.ErrDataFormat, domain.ColLabel, i, label)
		}
	}

	trainIdx, testIdx := ml.TrainTestSplit(len(x), TestFraction, SplitSeed)

	fitRows := x
	if p.fit == ScalerFitTrain {
		fitRows = ml.Take(x, trainIdx)
	}
	sc, err := ml.FitStandardScaler(fitRows)
	if err != nil {
		return Split{}, err
	}
	scaled, err := sc.TransformAll(x)
	if err != nil {
		return Split{}, err
	}

	if err := p.sink.SavePreprocessors(enc, sc); err != nil {
		return Split{}, fmt.Errorf("save preprocessors: %w", err)
	}

	split := Split{
		TrainX: ml.Take(scaled, trainIdx),
		TestX:  ml.Take(scaled, testIdx),
		TrainY: ml.Take(y, trainIdx),
		TestY:  ml.Take(y, testIdx),
	}
	p.logger.Info("corpus preprocessed",
		"rows", len(x),
		"stations", enc.Len(),
		"train_rows", len(split.TrainX),
		"test_rows", len(split.TestX),
		"scaler_fit", string(p.fit),
	)
	return split, nil
}
