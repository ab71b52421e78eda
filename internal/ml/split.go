package ml

import (
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles the indices 0..n-1 with a seeded generator and
// returns the train and test partitions. The test partition holds
// ceil(testFraction*n) indices, taken from the front of the permutation.
// The same n, fraction, and seed always produce the same partitions.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int) {
	nTest := int(math.Ceil(testFraction * float64(n)))
	nTest = min(max(nTest, 0), n)

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

// Take selects rows of x by index.
func Take[T any](x []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}
