package evo

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"evoselect/internal/model"
	"evoselect/internal/scorer"
)

// Fitness weighting. The 1.5 exponent penalizes large feature counts
// super-linearly; these constants are tuned and must not drift.
const (
	accuracyWeight    = 0.75
	parsimonyWeight   = 0.25
	parsimonyExponent = 1.5
)

// Evaluator scores chromosomes against a fixed, pre-standardized dataset.
// Scorer failures degrade to the worst-case record so a bad individual is
// disfavored by selection instead of aborting the run.
type Evaluator struct {
	scaled   *mat.Dense
	labels   []int
	scorer   scorer.Scorer
	features int
}

func NewEvaluator(scaled *mat.Dense, labels []int, sc scorer.Scorer) *Evaluator {
	_, cols := scaled.Dims()
	return &Evaluator{scaled: scaled, labels: labels, scorer: sc, features: cols}
}

func (e *Evaluator) Evaluate(ch model.Chromosome) model.FitnessRecord {
	selected := ch.SelectedIndices()
	if len(selected) == 0 {
		return worstFitness()
	}

	accuracy, err := e.scorer.Score(projectColumns(e.scaled, selected), e.labels)
	if err != nil {
		return worstFitness()
	}

	ratio := float64(len(selected)) / float64(e.features)
	parsimony := 1 - math.Pow(ratio, parsimonyExponent)
	return model.FitnessRecord{
		Accuracy:     accuracy,
		FeatureRatio: ratio,
		Combined:     accuracy*accuracyWeight + parsimony*parsimonyWeight,
	}
}

func worstFitness() model.FitnessRecord {
	return model.FitnessRecord{Accuracy: 0, FeatureRatio: 1, Combined: 0}
}

func projectColumns(X *mat.Dense, cols []int) *mat.Dense {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, len(cols), nil)
	for r := 0; r < rows; r++ {
		row := X.RawRowView(r)
		for c, idx := range cols {
			out.Set(r, c, row[idx])
		}
	}
	return out
}
