// Package classifier implements a CART decision tree over dense numeric
// features with Gini impurity splits.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ClassWeightBalanced weights classes inversely to their frequency.
const ClassWeightBalanced = "balanced"

// Config controls tree growth.
type Config struct {
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	ClassWeight     string `json:"class_weight,omitempty"`
}

// DefaultConfig returns the settings used for awareness-tier models.
func DefaultConfig() Config {
	return Config{MaxDepth: 10, MinSamplesSplit: 5}
}

// Node is a tree node. Leaves have nil children.
type Node struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *Node     `json:"left,omitempty"`
	Right     *Node     `json:"right,omitempty"`
	Class     int       `json:"class"`
	Counts    []float64 `json:"counts"`
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool { return n.Left == nil && n.Right == nil }

// Tree is a fitted classifier.
type Tree struct {
	Classes  []string `json:"classes"`
	Features int      `json:"features"`
	Config   Config   `json:"config"`
	Root     *Node    `json:"root"`
}

var (
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrSingleClass      = errors.New("training labels contain a single class")
)

// Fit grows a tree on X (rows × features) and labels y.
func Fit(X [][]float64, y []string, cfg Config) (*Tree, error) {
	if len(X) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("fit: %d rows but %d labels", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("fit: row %d has %d features, want %d", i, len(row), width)
		}
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}

	classes := uniqueSorted(y)
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	labels := make([]int, len(y))
	for i, v := range y {
		labels[i] = classIdx[v]
	}

	weights := make([]float64, len(classes))
	for i := range weights {
		weights[i] = 1
	}
	if cfg.ClassWeight == ClassWeightBalanced {
		counts := make([]float64, len(classes))
		for _, l := range labels {
			counts[l]++
		}
		for i, c := range counts {
			weights[i] = float64(len(labels)) / (float64(len(classes)) * c)
		}
	} else if cfg.ClassWeight != "" {
		return nil, fmt.Errorf("fit: unknown class weight %q", cfg.ClassWeight)
	}

	b := &builder{X: X, labels: labels, weights: weights, classes: len(classes), cfg: cfg}
	rows := make([]int, len(X))
	for i := range rows {
		rows[i] = i
	}
	return &Tree{
		Classes:  classes,
		Features: width,
		Config:   cfg,
		Root:     b.grow(rows, 0),
	}, nil
}

type builder struct {
	X       [][]float64
	labels  []int
	weights []float64
	classes int
	cfg     Config
}

func (b *builder) counts(rows []int) []float64 {
	c := make([]float64, b.classes)
	for _, r := range rows {
		c[b.labels[r]] += b.weights[b.labels[r]]
	}
	return c
}

func (b *builder) grow(rows []int, depth int) *Node {
	counts := b.counts(rows)
	node := &Node{Class: argmax(counts), Counts: counts}

	if gini(counts) == 0 || len(rows) < b.cfg.MinSamplesSplit {
		return node
	}
	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return node
	}

	feature, threshold, ok := b.bestSplit(rows, counts)
	if !ok {
		return node
	}
	var left, right []int
	for _, r := range rows {
		if b.X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.grow(left, depth+1)
	node.Right = b.grow(right, depth+1)
	return node
}

// bestSplit scans every feature for the threshold with the lowest weighted
// child impurity. Ties keep the earliest feature and threshold. A split is
// taken even when it does not lower impurity.
func (b *builder) bestSplit(rows []int, parent []float64) (int, float64, bool) {
	total := sum(parent)
	bestScore := math.Inf(1)
	bestFeature, bestThreshold, found := -1, 0.0, false

	sorted := make([]int, len(rows))
	for f := 0; f < len(b.X[rows[0]]); f++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		left := make([]float64, b.classes)
		right := append([]float64(nil), parent...)
		for i := 0; i < len(sorted)-1; i++ {
			l := b.labels[sorted[i]]
			w := b.weights[l]
			left[l] += w
			right[l] -= w

			cur, next := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if cur == next {
				continue
			}
			lw, rw := sum(left), sum(right)
			score := (lw*gini(left) + rw*gini(right)) / total
			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = f
				bestThreshold = (cur + next) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

// Predict returns the class label for one feature row.
func (t *Tree) Predict(x []float64) string {
	n := t.Root
	for !n.Leaf() {
		v := 0.0
		if n.Feature < len(x) {
			v = x[n.Feature]
		}
		if v <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return t.Classes[n.Class]
}

// PredictAll predicts every row of X.
func (t *Tree) PredictAll(X [][]float64) []string {
	out := make([]string, len(X))
	for i, row := range X {
		out[i] = t.Predict(row)
	}
	return out
}

// Depth returns the depth of the deepest leaf.
func (t *Tree) Depth() int { return depth(t.Root) }

// Leaves counts leaf nodes.
func (t *Tree) Leaves() int { return leaves(t.Root) }

func depth(n *Node) int {
	if n == nil || n.Leaf() {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

func leaves(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Leaf() {
		return 1
	}
	return leaves(n.Left) + leaves(n.Right)
}

func gini(counts []float64) float64 {
	total := sum(counts)
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func uniqueSorted(y []string) []string {
	seen := make(map[string]struct{}, len(y))
	var out []string
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
