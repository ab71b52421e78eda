package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func TestTrainer_TrainsAndSaves(t *testing.T) {
	split, err := pipeline.NewPreprocessor(&memorySink{}, pipeline.ScalerFitAll, discardLogger()).
		FitTransformSplit(context.Background(), dataset.MockCorpus(7*12*4, 5))
	require.NoError(t, err)

	sink := &memorySink{}
	forest, report, err := pipeline.NewTrainer(sink, smallForest(), discardLogger()).Train(context.Background(), split)
	require.NoError(t, err)

	assert.Same(t, forest, sink.model)
	assert.Equal(t, 15, report.Trees)
	assert.Equal(t, len(split.TrainX), report.TrainRows)
	assert.Equal(t, len(split.TestX), report.TestRows)
	assert.Greater(t, report.Accuracy, 0.75)
	assert.LessOrEqual(t, report.Accuracy, 1.0)
	assert.Equal(t, domain.NumFeatures, forest.NFeatures)
}

func TestTrainer_SavesRegardlessOfAccuracy(t *testing.T) {
	// Labels alternate independently of the features, so accuracy is poor.
	x := make([][]float64, 40)
	y := make([]int, 40)
	for i := range x {
		x[i] = make([]float64, domain.NumFeatures)
		x[i][1] = float64(i % 3)
		y[i] = i % 2
	}
	split := pipeline.Split{TrainX: x[:32], TrainY: y[:32], TestX: x[32:], TestY: y[32:]}

	sink := &memorySink{}
	_, _, err := pipeline.NewTrainer(sink, smallForest(), discardLogger()).Train(context.Background(), split)
	require.NoError(t, err)
	assert.NotNil(t, sink.model)
}

func TestTrainer_EmptyTrainPartition(t *testing.T) {
	sink := &memorySink{}
	_, _, err := pipeline.NewTrainer(sink, smallForest(), discardLogger()).Train(context.Background(), pipeline.Split{})
	require.ErrorIs(t, err, domain.ErrDataFormat)
	assert.Zero(t, sink.calls)
}

func TestTrainer_SinkError(t *testing.T) {
	x := [][]float64{make([]float64, domain.NumFeatures), make([]float64, domain.NumFeatures)}
	x[1][0] = 1
	split := pipeline.Split{TrainX: x, TrainY: []int{0, 1}}

	_, _, err := pipeline.NewTrainer(&memorySink{err: domain.ErrArtifactIO}, smallForest(), discardLogger()).
		Train(context.Background(), split)
	require.ErrorIs(t, err, domain.ErrArtifactIO)
}
