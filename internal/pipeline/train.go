package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/ml"
)

// ModelSink persists a fitted classifier.
type ModelSink interface {
	SaveModel(model *ml.Forest) error
}

// Report summarizes a training run.
type Report struct {
	Accuracy  float64
	TrainRows int
	TestRows  int
	Trees     int
	Duration  time.Duration
}

// Trainer fits the random forest and persists it.
type Trainer struct {
	sink   ModelSink
	cfg    ml.ForestConfig
	logger *slog.Logger
}

// NewTrainer creates a Trainer with the given forest settings.
func NewTrainer(sink ModelSink, cfg ml.ForestConfig, logger *slog.Logger) *Trainer {
	return &Trainer{sink: sink, cfg: cfg, logger: logger}
}

// Train fits on the train partition, measures accuracy on the test
// partition, and saves the model whatever the accuracy.
func (t *Trainer) Train(ctx context.Context, split Split) (*ml.Forest, Report, error) {
	start := time.Now()

	forest, err := ml.FitForest(ctx, split.TrainX, split.TrainY, t.cfg)
	if err != nil {
		return nil, Report{}, fmt.Errorf("fit forest: %w", err)
	}

	var accuracy float64
	if len(split.TestX) > 0 {
		pred, err := forest.PredictAll(split.TestX)
		if err != nil {
			return nil, Report{}, fmt.Errorf("score test partition: %w", err)
		}
		accuracy = ml.Accuracy(split.TestY, pred)
	}

	if err := t.sink.SaveModel(forest); err != nil {
		return nil, Report{}, fmt.Errorf("save model: %w", err)
	}

	report := Report{
		Accuracy:  accuracy,
		TrainRows: len(split.TrainX),
		TestRows:  len(split.TestX),
		Trees:     len(forest.Trees),
		Duration:  time.Since(start),
	}
	t.logger.Info("model trained",
		"accuracy", fmt.Sprintf("%.4f", report.Accuracy),
		"trees", report.Trees,
		"train_rows", report.TrainRows,
		"test_rows", report.TestRows,
		"duration", report.Duration,
	)
	return forest, report, nil
}
