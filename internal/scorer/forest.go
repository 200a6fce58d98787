package scorer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ForestConfig controls a single random forest fit.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// Forest is a random forest classifier over a dense feature matrix. Trees
// are grown on bootstrap samples with sqrt-feature candidate subsets and
// gini impurity splits.
type Forest struct {
	cfg        ForestConfig
	trees      []*treeNode
	classes    []int
	importance []float64
}

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// NewForest validates the config and fills zero fields with defaults.
func NewForest(cfg ForestConfig) (*Forest, error) {
	if cfg.Trees == 0 {
		cfg.Trees = 30
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 10
	}
	if cfg.MinSamplesSplit == 0 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.Trees < 1 {
		return nil, fmt.Errorf("forest tree count must be >= 1")
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("forest max depth must be >= 1")
	}
	if cfg.MinSamplesSplit < 2 {
		return nil, fmt.Errorf("forest min samples split must be >= 2")
	}
	return &Forest{cfg: cfg}, nil
}

// Fit grows the forest on the given rows. Labels must parallel the matrix
// rows.
func (f *Forest) Fit(X *mat.Dense, y []int) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("forest fit requires a non-empty matrix")
	}
	if rows != len(y) {
		return fmt.Errorf("forest fit dimension mismatch: %d rows, %d labels", rows, len(y))
	}

	f.classes = distinctSorted(y)
	f.importance = make([]float64, cols)
	f.trees = make([]*treeNode, 0, f.cfg.Trees)

	rng := rand.New(rand.NewSource(f.cfg.Seed))
	mtry := int(math.Sqrt(float64(cols)))
	if mtry < 1 {
		mtry = 1
	}

	g := &grower{
		X:          X,
		y:          y,
		rng:        rng,
		maxDepth:   f.cfg.MaxDepth,
		minSplit:   f.cfg.MinSamplesSplit,
		mtry:       mtry,
		cols:       cols,
		total:      float64(rows),
		classes:    f.classes,
		importance: f.importance,
	}

	for t := 0; t < f.cfg.Trees; t++ {
		sample := make([]int, rows)
		for i := range sample {
			sample[i] = rng.Intn(rows)
		}
		f.trees = append(f.trees, g.build(sample, 0))
	}

	total := 0.0
	for _, v := range f.importance {
		total += v
	}
	if total > 0 {
		for i := range f.importance {
			f.importance[i] /= total
		}
	}
	return nil
}

// Predict returns the majority-vote class for one row.
func (f *Forest) Predict(row []float64) int {
	votes := make(map[int]int, len(f.classes))
	for _, tree := range f.trees {
		votes[classify(tree, row)]++
	}
	best := f.classes[0]
	bestVotes := -1
	for _, class := range f.classes {
		if votes[class] > bestVotes {
			best = class
			bestVotes = votes[class]
		}
	}
	return best
}

// Accuracy scores the forest on the given rows.
func (f *Forest) Accuracy(X *mat.Dense, y []int) float64 {
	rows, _ := X.Dims()
	if rows == 0 {
		return 0
	}
	correct := 0
	for r := 0; r < rows; r++ {
		if f.Predict(X.RawRowView(r)) == y[r] {
			correct++
		}
	}
	return float64(correct) / float64(rows)
}

// Importances returns per-feature impurity-decrease importances normalized
// to sum to 1.
func (f *Forest) Importances() []float64 {
	return append([]float64(nil), f.importance...)
}

func classify(node *treeNode, row []float64) int {
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.class
}

type grower struct {
	X          *mat.Dense
	y          []int
	rng        *rand.Rand
	maxDepth   int
	minSplit   int
	mtry       int
	cols       int
	total      float64
	classes    []int
	importance []float64
}

func (g *grower) build(sample []int, depth int) *treeNode {
	counts := g.classCounts(sample)
	impurity := gini(counts, len(sample))

	if impurity == 0 || depth >= g.maxDepth || len(sample) < g.minSplit {
		return &treeNode{leaf: true, class: g.majority(counts)}
	}

	feature, threshold, gain, ok := g.bestSplit(sample, impurity)
	if !ok {
		return &treeNode{leaf: true, class: g.majority(counts)}
	}

	left := make([]int, 0, len(sample))
	right := make([]int, 0, len(sample))
	for _, idx := range sample {
		if g.X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, class: g.majority(counts)}
	}

	g.importance[feature] += float64(len(sample)) / g.total * gain

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      g.build(left, depth+1),
		right:     g.build(right, depth+1),
	}
}

// bestSplit searches a random mtry-sized feature subset for the split with
// the largest gini gain.
func (g *grower) bestSplit(sample []int, impurity float64) (feature int, threshold, gain float64, ok bool) {
	candidates := g.rng.Perm(g.cols)[:g.mtry]

	type cell struct {
		value float64
		class int
	}
	cells := make([]cell, len(sample))

	for _, f := range candidates {
		for i, idx := range sample {
			cells[i] = cell{value: g.X.At(idx, f), class: g.y[idx]}
		}
		sort.Slice(cells, func(i, j int) bool { return cells[i].value < cells[j].value })

		leftCounts := make(map[int]int, len(g.classes))
		rightCounts := g.classCounts(sample)
		nLeft := 0
		nTotal := len(sample)

		for i := 0; i < nTotal-1; i++ {
			leftCounts[cells[i].class]++
			rightCounts[cells[i].class]--
			nLeft++
			if cells[i].value == cells[i+1].value {
				continue
			}
			nRight := nTotal - nLeft
			weighted := float64(nLeft)/float64(nTotal)*gini(leftCounts, nLeft) +
				float64(nRight)/float64(nTotal)*gini(rightCounts, nRight)
			if delta := impurity - weighted; delta > gain {
				gain = delta
				feature = f
				threshold = (cells[i].value + cells[i+1].value) / 2
				ok = true
			}
		}
	}
	return feature, threshold, gain, ok
}

func (g *grower) classCounts(sample []int) map[int]int {
	counts := make(map[int]int, len(g.classes))
	for _, idx := range sample {
		counts[g.y[idx]]++
	}
	return counts
}

func (g *grower) majority(counts map[int]int) int {
	best := g.classes[0]
	bestCount := -1
	for _, class := range g.classes {
		if counts[class] > bestCount {
			best = class
			bestCount = counts[class]
		}
	}
	return best
}

func gini(counts map[int]int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func distinctSorted(y []int) []int {
	seen := make(map[int]struct{}, len(y))
	out := make([]int, 0, 8)
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
