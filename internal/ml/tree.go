package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// treeNode is one node of a fitted decision tree. Leaves have Left == -1.
// Value is the fraction of class-1 training samples that reached the node.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// Tree is a binary CART classifier. Samples with x[Feature] <= Threshold go
// left. Node 0 is the root.
type Tree struct {
	Nodes []treeNode `json:"nodes"`
}

// Vote returns the class the tree predicts for row. Ties go to class 0.
func (t *Tree) Vote(row []float64) int {
	if t.leafValue(row) > 0.5 {
		return 1
	}
	return 0
}

func (t *Tree) leafValue(row []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (t *Tree) validate(nFeatures int) error {
	if t == nil || len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if math.IsNaN(n.Value) || n.Value < 0 || n.Value > 1 {
			return fmt.Errorf("node %d: leaf value %v outside [0, 1]", i, n.Value)
		}
		if n.Left < 0 {
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of order", i, child)
			}
		}
	}
	return nil
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Left < 0 {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

// treeBuilder grows a tree to purity using Gini impurity, examining a random
// subset of maxFeatures non-constant features at each split.
type treeBuilder struct {
	x               [][]float64
	y               []int
	maxFeatures     int
	minSamplesSplit int
	rng             *rand.Rand
	nodes           []treeNode

	// scratch buffer reused by bestSplit
	pairs []sample
}

type sample struct {
	value float64
	label int
}

func (b *treeBuilder) fit(idx []int) *Tree {
	b.pairs = make([]sample, 0, len(idx))
	b.build(idx)
	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int) int {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	n := len(idx)

	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{
		Feature: -1,
		Left:    -1,
		Right:   -1,
		Value:   float64(pos) / float64(n),
	})

	if n < b.minSamplesSplit || pos == 0 || pos == n {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return id
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left)
	r := b.build(right)

	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// bestSplit returns the feature and threshold with the lowest weighted Gini
// impurity among the sampled features. ok is false when every feature is
// constant over idx.
func (b *treeBuilder) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	nFeatures := len(b.x[idx[0]])
	order := b.rng.Perm(nFeatures)

	best := 0.0
	visited := 0
	for _, f := range order {
		if visited >= b.maxFeatures {
			break
		}

		b.pairs = b.pairs[:0]
		for _, i := range idx {
			b.pairs = append(b.pairs, sample{value: b.x[i][f], label: b.y[i]})
		}
		slices.SortFunc(b.pairs, func(a, c sample) int {
			switch {
			case a.value < c.value:
				return -1
			case a.value > c.value:
				return 1
			default:
				return 0
			}
		})
		if b.pairs[0].value == b.pairs[len(b.pairs)-1].value {
			continue
		}
		visited++

		score, thr, found := bestThreshold(b.pairs)
		if found && (!ok || score < best) {
			best, feature, threshold, ok = score, f, thr, true
		}
	}
	return feature, threshold, ok
}

// bestThreshold scans sorted samples and returns the lowest weighted Gini
// impurity over all cut points between distinct adjacent values.
func bestThreshold(pairs []sample) (score, threshold float64, found bool) {
	n := len(pairs)
	totalPos := 0
	for _, p := range pairs {
		totalPos += p.label
	}

	leftPos := 0
	for i := 0; i < n-1; i++ {
		leftPos += pairs[i].label
		if pairs[i].value == pairs[i+1].value {
			continue
		}
		leftN := i + 1
		rightN := n - leftN
		s := float64(leftN)*gini(leftN, leftPos) + float64(rightN)*gini(rightN, totalPos-leftPos)
		if !found || s < score {
			score = s
			threshold = midpoint(pairs[i].value, pairs[i+1].value)
			found = true
		}
	}
	return score, threshold, found
}

func gini(n, pos int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}

// midpoint returns a threshold strictly separating lo and hi. When the
// midpoint rounds up to hi, lo itself is used.
func midpoint(lo, hi float64) float64 {
	m := lo/2 + hi/2
	if m >= hi {
		return lo
	}
	return m
}
