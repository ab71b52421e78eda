package pipeline_test

import (
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/artifact"
	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/ml"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func TestPredictor_MatchesManualPipeline(t *testing.T) {
	store := trainArtifacts(t)
	set, err := store.Load()
	require.NoError(t, err)
	p, err := pipeline.NewPredictor(set)
	require.NoError(t, err)

	for _, rec := range dataset.GenerateMock(30, 99) {
		code, err := set.Encoder.Transform(rec.Row.StationName)
		require.NoError(t, err)
		scaled, err := set.Scaler.Transform(append([]float64{float64(code)}, rec.Row.Numeric()...))
		require.NoError(t, err)
		wantLabel, wantProb, err := set.Model.Predict(scaled)
		require.NoError(t, err)

		label, prob, err := p.Predict(rec.Row)
		require.NoError(t, err)
		assert.Equal(t, wantLabel, label)
		assert.InDelta(t, wantProb, prob, 0.00005)
	}
}

func TestPredictor_ProbabilityRoundedToFourPlaces(t *testing.T) {
	p := loadPredictor(t, trainArtifacts(t))

	label, prob, err := p.Predict(barisalRow())
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, label)
	assert.GreaterOrEqual(t, prob, 0.0)
	assert.LessOrEqual(t, prob, 1.0)
	assert.InDelta(t, domain.RoundTo(prob, 4), prob, 0)
	assert.Equal(t, prob > 0.5, label == 1)
}

func TestPredictor_ReloadedArtifactsReproduce(t *testing.T) {
	store := trainArtifacts(t)
	monsoon, err := domain.NewFeatureRow("Barisal", []float64{
		2025, 7, 34.5, 26.5, 400, 85, 1.5, 4.5, 6.5, 41950, 536809.8, 510151.9, 22.7, 90.36, 4, 2025.07,
	})
	require.NoError(t, err)

	label1, prob1, err := loadPredictor(t, store).Predict(monsoon)
	require.NoError(t, err)
	label2, prob2, err := loadPredictor(t, store).Predict(monsoon)
	require.NoError(t, err)

	assert.Equal(t, label1, label2)
	assert.InDelta(t, prob1, prob2, 0)
}

func TestPredictor_UnknownStation(t *testing.T) {
	p := loadPredictor(t, trainArtifacts(t))

	row := barisalRow()
	row.StationName = "Atlantis"
	_, _, err := p.Predict(row)
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestPredictor_ConcurrentCallersAgree(t *testing.T) {
	p := loadPredictor(t, trainArtifacts(t))
	wantLabel, wantProb, err := p.Predict(barisalRow())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			label, prob, err := p.Predict(barisalRow())
			assert.NoError(t, err)
			assert.Equal(t, wantLabel, label)
			assert.InDelta(t, wantProb, prob, 0)
		}()
	}
	wg.Wait()
}

func TestPredictor_Stations(t *testing.T) {
	p := loadPredictor(t, trainArtifacts(t))
	stations := p.Stations()
	assert.Len(t, stations, len(dataset.MockStations))
	assert.Contains(t, stations, "Barisal")
}

func TestNewPredictor_RejectsInconsistentArtifacts(t *testing.T) {
	store := trainArtifacts(t)
	set, err := store.Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *artifact.Set)
	}{
		{"missing encoder", func(s *artifact.Set) { s.Encoder = nil }},
		{"empty encoder", func(s *artifact.Set) { s.Encoder = ml.NewLabelEncoder(nil) }},
		{"narrow scaler", func(s *artifact.Set) {
			s.Scaler = &ml.StandardScaler{Mean: s.Scaler.Mean[:16], Scale: s.Scaler.Scale[:16]}
		}},
		{"wrong model width", func(s *artifact.Set) { s.Model = &ml.Forest{NFeatures: 3, Trees: s.Model.Trees} }},
		{"no trees", func(s *artifact.Set) { s.Model = &ml.Forest{NFeatures: domain.NumFeatures} }},
		{"empty tree", func(s *artifact.Set) { s.Model = withTree(s.Model, &ml.Tree{}) }},
		{"self-referencing node", func(s *artifact.Set) {
			s.Model = withTree(s.Model, decodeTree(t, `{"nodes":[{"f":0,"t":0,"l":0,"r":0,"v":0.5}]}`))
		}},
		{"feature out of range", func(s *artifact.Set) {
			s.Model = withTree(s.Model, decodeTree(t,
				`{"nodes":[{"f":17,"t":0,"l":1,"r":2,"v":0.5},{"f":-1,"l":-1,"r":-1,"v":0},{"f":-1,"l":-1,"r":-1,"v":1}]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set
			tt.mutate(&s)
			_, err := pipeline.NewPredictor(s)
			require.Error(t, err)
		})
	}
}

// withTree returns a copy of f with its first tree replaced.
func withTree(f *ml.Forest, tree *ml.Tree) *ml.Forest {
	trees := slices.Clone(f.Trees)
	trees[0] = tree
	return &ml.Forest{NFeatures: f.NFeatures, Trees: trees}
}

func decodeTree(t *testing.T, data string) *ml.Tree {
	t.Helper()
	var tree ml.Tree
	require.NoError(t, json.Unmarshal([]byte(data), &tree))
	return &tree
}
