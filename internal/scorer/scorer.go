package scorer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scorer estimates cross-validated classification accuracy for a feature
// matrix. Implementations must return a value in [0, 1] and report failures
// as errors rather than panicking; the fitness evaluator absorbs them.
type Scorer interface {
	Score(X *mat.Dense, y []int) (float64, error)
}

// Config controls the forest scorer. MaxParallelism is an explicit contract
// field: the evolution engine requires an internal parallelism degree of
// exactly one so whole runs stay deterministic and resource-bounded.
type Config struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
	Folds           int
	Shuffle         bool
	CVSeed          int64
	MaxParallelism  int
}

// DefaultConfig matches the reference setup: a 30-tree depth-10 forest under
// shuffled stratified 5-fold cross-validation, both seeded with 42.
func DefaultConfig() Config {
	return Config{
		Trees:           30,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		Seed:            42,
		Folds:           5,
		Shuffle:         true,
		CVSeed:          42,
		MaxParallelism:  1,
	}
}

// ForestScorer scores feature subsets with a cross-validated random forest.
type ForestScorer struct {
	cfg Config
}

func NewForestScorer(cfg Config) (*ForestScorer, error) {
	if cfg.Trees == 0 {
		cfg.Trees = 30
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 10
	}
	if cfg.MinSamplesSplit == 0 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.Folds == 0 {
		cfg.Folds = 5
	}
	if cfg.MaxParallelism == 0 {
		cfg.MaxParallelism = 1
	}
	if cfg.Folds < 2 {
		return nil, fmt.Errorf("cross-validation folds must be >= 2")
	}
	if cfg.MaxParallelism != 1 {
		return nil, fmt.Errorf("scorer parallelism must be exactly 1, got %d", cfg.MaxParallelism)
	}
	return &ForestScorer{cfg: cfg}, nil
}

// Score returns the mean accuracy over the stratified folds.
func (s *ForestScorer) Score(X *mat.Dense, y []int) (float64, error) {
	scores, err := s.ScoreFolds(X, y)
	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}

// ScoreFolds returns the per-fold accuracies in fold order.
func (s *ForestScorer) ScoreFolds(X *mat.Dense, y []int) ([]float64, error) {
	rows, _ := X.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("score dimension mismatch: %d rows, %d labels", rows, len(y))
	}

	folds, err := stratifiedFolds(y, s.cfg.Folds, s.cfg.Shuffle, s.cfg.CVSeed)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(folds))
	for f, test := range folds {
		train := complement(rows, test)
		if len(train) == 0 {
			return nil, fmt.Errorf("fold %d has no training rows", f)
		}

		forest, err := NewForest(ForestConfig{
			Trees:           s.cfg.Trees,
			MaxDepth:        s.cfg.MaxDepth,
			MinSamplesSplit: s.cfg.MinSamplesSplit,
			Seed:            s.cfg.Seed,
		})
		if err != nil {
			return nil, err
		}
		if err := forest.Fit(selectRows(X, train), selectLabels(y, train)); err != nil {
			return nil, fmt.Errorf("fit fold %d: %w", f, err)
		}
		scores = append(scores, forest.Accuracy(selectRows(X, test), selectLabels(y, test)))
	}
	return scores, nil
}

// FitImportances fits one forest on all rows and returns per-feature
// importances. The reporter uses this for its importance estimates.
func (s *ForestScorer) FitImportances(X *mat.Dense, y []int) ([]float64, error) {
	forest, err := NewForest(ForestConfig{
		Trees:           s.cfg.Trees,
		MaxDepth:        s.cfg.MaxDepth,
		MinSamplesSplit: s.cfg.MinSamplesSplit,
		Seed:            s.cfg.Seed,
	})
	if err != nil {
		return nil, err
	}
	if err := forest.Fit(X, y); err != nil {
		return nil, err
	}
	return forest.Importances(), nil
}

// stratifiedFolds assigns every row index to exactly one test fold,
// distributing each class round-robin so fold class balance mirrors the
// whole dataset. A class with fewer members than folds cannot be stratified
// and is an error.
func stratifiedFolds(y []int, folds int, shuffle bool, seed int64) ([][]int, error) {
	byClass := make(map[int][]int)
	for i, class := range y {
		byClass[class] = append(byClass[class], i)
	}
	for _, class := range distinctSorted(y) {
		if len(byClass[class]) < folds {
			return nil, fmt.Errorf("class %d has %d members, fewer than %d folds", class, len(byClass[class]), folds)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([][]int, folds)
	for _, class := range distinctSorted(y) {
		members := append([]int(nil), byClass[class]...)
		if shuffle {
			rng.Shuffle(len(members), func(i, j int) {
				members[i], members[j] = members[j], members[i]
			})
		}
		for i, idx := range members {
			out[i%folds] = append(out[i%folds], idx)
		}
	}
	return out, nil
}

func complement(rows int, test []int) []int {
	inTest := make(map[int]struct{}, len(test))
	for _, idx := range test {
		inTest[idx] = struct{}{}
	}
	out := make([]int, 0, rows-len(test))
	for i := 0; i < rows; i++ {
		if _, ok := inTest[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

func selectRows(X *mat.Dense, rows []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(rows), cols, nil)
	for r, idx := range rows {
		out.SetRow(r, X.RawRowView(idx))
	}
	return out
}

func selectLabels(y []int, rows []int) []int {
	out := make([]int, len(rows))
	for r, idx := range rows {
		out[r] = y[idx]
	}
	return out
}
