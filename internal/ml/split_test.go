package ml

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainTestSplit_Sizes(t *testing.T) {
	cases := []struct {
		n         int
		wantTrain int
		wantTest  int
	}{
		{n: 100, wantTrain: 80, wantTest: 20},
		{n: 101, wantTrain: 80, wantTest: 21},
		{n: 5, wantTrain: 4, wantTest: 1},
		{n: 1, wantTrain: 0, wantTest: 1},
		{n: 0, wantTrain: 0, wantTest: 0},
	}
	for _, tc := range cases {
		train, test := TrainTestSplit(tc.n, 0.2, 42)
		assert.Len(t, train, tc.wantTrain, "n=%d", tc.n)
		assert.Len(t, test, tc.wantTest, "n=%d", tc.n)
	}
}

func TestTrainTestSplit_PartitionsAllIndices(t *testing.T) {
	train, test := TrainTestSplit(50, 0.2, 42)

	all := slices.Concat(train, test)
	slices.Sort(all)
	want := make([]int, 50)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, all)
}

func TestTrainTestSplit_Reproducible(t *testing.T) {
	train1, test1 := TrainTestSplit(500, 0.2, 42)
	train2, test2 := TrainTestSplit(500, 0.2, 42)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	train3, _ := TrainTestSplit(500, 0.2, 7)
	assert.NotEqual(t, train1, train3, "different seeds should shuffle differently")
}

func TestTake(t *testing.T) {
	assert.Equal(t, []string{"c", "a"}, Take([]string{"a", "b", "c"}, []int{2, 0}))
	assert.Empty(t, Take([]int{1, 2}, nil))
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]int{1, 0, 1, 1}, []int{1, 0, 0, 1}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
	assert.Equal(t, 0.0, Accuracy([]int{1}, []int{1, 0}))
}
