package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// ForestConfig controls random forest training.
type ForestConfig struct {
	// NTrees is the ensemble size.
	NTrees int
	// Seed makes training reproducible. Tree i draws its bootstrap sample and
	// feature subsets from a generator seeded with (Seed, i).
	Seed uint64
	// MaxFeatures is the number of candidate features per split. Zero means
	// floor(sqrt(width)).
	MaxFeatures int
	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int
	// Workers bounds concurrent tree fits. Zero means GOMAXPROCS.
	Workers int
}

// DefaultForestConfig returns 100 trees with seed 42.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NTrees:          100,
		Seed:            42,
		MinSamplesSplit: 2,
	}
}

// Forest is a fitted random forest binary classifier.
type Forest struct {
	NFeatures int     `json:"n_features"`
	Trees     []*Tree `json:"trees"`
}

// FitForest trains a random forest on x (rows of equal width) and binary
// labels y. Trees are fitted concurrently; the result does not depend on
// scheduling because every tree owns its generator.
func FitForest(ctx context.Context, x [][]float64, y []int, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: cannot fit forest on an empty matrix", domain.ErrDataFormat)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", domain.ErrDataFormat, len(x), len(y))
	}
	width := len(x[0])
	if err := checkWidth(x, width); err != nil {
		return nil, err
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("%w: label %d at row %d is not 0 or 1", domain.ErrDataFormat, label, i)
		}
	}
	if cfg.NTrees <= 0 {
		return nil, fmt.Errorf("forest needs at least one tree, got %d", cfg.NTrees)
	}

	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}
	minSplit := max(cfg.MinSamplesSplit, 2)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]*Tree, cfg.NTrees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			b := &treeBuilder{
				x:               x,
				y:               y,
				maxFeatures:     maxFeatures,
				minSamplesSplit: minSplit,
				rng:             rng,
			}
			trees[i] = b.fit(bootstrap(len(x), rng))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{NFeatures: width, Trees: trees}, nil
}

// bootstrap draws n indices with replacement.
func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// Validate checks the structure of a loaded forest so that prediction cannot
// index out of range or cycle: every tree has nodes, split features are below
// NFeatures, and children come after their parent.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("%w: model has %d features", domain.ErrDataFormat, f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: model has no trees", domain.ErrDataFormat)
	}
	for i, t := range f.Trees {
		if err := t.validate(f.NFeatures); err != nil {
			return fmt.Errorf("%w: tree %d: %v", domain.ErrDataFormat, i, err)
		}
	}
	return nil
}

// PredictProba returns the fraction of trees voting class 1.
func (f *Forest) PredictProba(row []float64) (float64, error) {
	if len(row) != f.NFeatures {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", domain.ErrDataFormat, f.NFeatures, len(row))
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%w: model has no trees", domain.ErrDataFormat)
	}
	votes := 0
	for _, t := range f.Trees {
		votes += t.Vote(row)
	}
	return float64(votes) / float64(len(f.Trees)), nil
}

// Predict returns the majority label and the class-1 probability. Exact ties
// resolve to class 0.
func (f *Forest) Predict(row []float64) (label int, probability float64, err error) {
	probability, err = f.PredictProba(row)
	if err != nil {
		return 0, 0, err
	}
	if probability > 0.5 {
		label = 1
	}
	return label, probability, nil
}

// PredictAll returns the hard label for every row of x.
func (f *Forest) PredictAll(x [][]float64) ([]int, error) {
	labels := make([]int, len(x))
	for i, row := range x {
		label, _, err := f.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		labels[i] = label
	}
	return labels, nil
}
