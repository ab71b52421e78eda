package pipeline_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func columnMeans(rows ...[][]float64) []float64 {
	means := make([]float64, domain.NumFeatures)
	n := 0
	for _, part := range rows {
		for _, row := range part {
			for j, v := range row {
				means[j] += v
			}
			n++
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	return means
}

func TestPreprocessor_SplitsEightyTwenty(t *testing.T) {
	sink := &memorySink{}
	p := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger())

	split, err := p.FitTransformSplit(context.Background(), dataset.MockCorpus(101, 1))
	require.NoError(t, err)

	assert.Len(t, split.TestX, 21)
	assert.Len(t, split.TestY, 21)
	assert.Len(t, split.TrainX, 80)
	assert.Len(t, split.TrainY, 80)
	for _, row := range split.TrainX {
		require.Len(t, row, domain.NumFeatures)
	}
	assert.Equal(t, 1, sink.calls)
}

func TestPreprocessor_PersistsSortedStations(t *testing.T) {
	sink := &memorySink{}
	p := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger())

	_, err := p.FitTransformSplit(context.Background(), dataset.MockCorpus(70, 1))
	require.NoError(t, err)

	want := make([]string, 0, len(dataset.MockStations))
	for _, st := range dataset.MockStations {
		want = append(want, st.Name)
	}
	slices.Sort(want)
	assert.Equal(t, want, sink.encoder.Classes)
	assert.Equal(t, domain.NumFeatures, sink.scaler.Width())
}

func TestPreprocessor_ScalerFitModes(t *testing.T) {
	corpus := dataset.MockCorpus(200, 4)

	all, err := pipeline.NewPreprocessor(&memorySink{}, pipeline.ScalerFitAll, discardLogger()).
		FitTransformSplit(context.Background(), corpus)
	require.NoError(t, err)
	for j, m := range columnMeans(all.TrainX, all.TestX) {
		assert.InDelta(t, 0, m, 1e-9, "column %d", j)
	}

	train, err := pipeline.NewPreprocessor(&memorySink{}, pipeline.ScalerFitTrain, discardLogger()).
		FitTransformSplit(context.Background(), corpus)
	require.NoError(t, err)
	for j, m := range columnMeans(train.TrainX) {
		assert.InDelta(t, 0, m, 1e-9, "column %d", j)
	}

	assert.Equal(t, all.TrainY, train.TrainY, "split does not depend on scaler mode")
	assert.NotEqual(t, all.TrainX, train.TrainX)
}

func TestPreprocessor_Deterministic(t *testing.T) {
	corpus := dataset.MockCorpus(150, 2)
	p := pipeline.NewPreprocessor(&memorySink{}, "", discardLogger())

	a, err := p.FitTransformSplit(context.Background(), corpus)
	require.NoError(t, err)
	b, err := p.FitTransformSplit(context.Background(), corpus)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPreprocessor_MissingColumnWritesNothing(t *testing.T) {
	for _, col := range []string{domain.ColLabel, domain.ColStationName, domain.ColRainfall} {
		t.Run(col, func(t *testing.T) {
			df := dataset.MockFrame(dataset.GenerateMock(30, 1)).Drop(col)
			sink := &memorySink{}

			_, err := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger()).
				FitTransformSplit(context.Background(), dataset.FromDataFrame(df))
			require.ErrorIs(t, err, domain.ErrDataFormat)
			assert.Contains(t, err.Error(), col)
			assert.Zero(t, sink.calls)
		})
	}
}

func TestPreprocessor_RejectsNonBinaryLabel(t *testing.T) {
	records := dataset.GenerateMock(20, 1)
	labels := make([]int, len(records))
	labels[3] = 2
	df := dataset.MockFrame(records).Mutate(series.New(labels, series.Int, domain.ColLabel))
	sink := &memorySink{}

	_, err := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger()).
		FitTransformSplit(context.Background(), dataset.FromDataFrame(df))
	require.ErrorIs(t, err, domain.ErrDataFormat)
	assert.Zero(t, sink.calls)
}

func TestPreprocessor_RejectsBlankStationAndFractionalLabel(t *testing.T) {
	records := dataset.GenerateMock(20, 1)

	stations := make([]string, len(records))
	labels := make([]float64, len(records))
	for i, r := range records {
		stations[i] = r.Row.StationName
		labels[i] = float64(r.Flood)
	}
	blank := slices.Clone(stations)
	blank[5] = ""
	fractional := slices.Clone(labels)
	fractional[2] = 0.7

	tests := []struct {
		name string
		col  series.Series
	}{
		{"blank station", series.New(blank, series.String, domain.ColStationName)},
		{"fractional label", series.New(fractional, series.Float, domain.ColLabel)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := dataset.MockFrame(records).Mutate(tt.col)
			sink := &memorySink{}

			_, err := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger()).
				FitTransformSplit(context.Background(), dataset.FromDataFrame(df))
			require.ErrorIs(t, err, domain.ErrDataFormat)
			assert.Contains(t, err.Error(), tt.col.Name)
			assert.Zero(t, sink.calls)
		})
	}
}

func TestPreprocessor_SinkError(t *testing.T) {
	sink := &memorySink{err: domain.ErrArtifactIO}
	_, err := pipeline.NewPreprocessor(sink, pipeline.ScalerFitAll, discardLogger()).
		FitTransformSplit(context.Background(), dataset.MockCorpus(30, 1))
	require.ErrorIs(t, err, domain.ErrArtifactIO)
}

func TestPreprocessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.NewPreprocessor(&memorySink{}, pipeline.ScalerFitAll, discardLogger()).
		FitTransformSplit(ctx, dataset.MockCorpus(30, 1))
	require.True(t, errors.Is(err, context.Canceled))
}
