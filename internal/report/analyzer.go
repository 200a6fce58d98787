// Package report builds comparison and visualization payloads from a
// finished optimization result. It is stateless and consumes only the
// result's selected features, counts and scores, never the engine's
// internals.
package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"evoselect/internal/dataset"
	"evoselect/internal/model"
	"evoselect/internal/scorer"
)

// Analyzer evaluates feature subsets on the raw, unstandardized dataset.
type Analyzer struct {
	ds     *dataset.Dataset
	scorer *scorer.ForestScorer
}

func NewAnalyzer(ds *dataset.Dataset) (*Analyzer, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	sc, err := scorer.NewForestScorer(scorer.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return &Analyzer{ds: ds, scorer: sc}, nil
}

// Build assembles the full report for a result.
func (a *Analyzer) Build(res model.Result) model.Report {
	return model.Report{
		Comparison:        a.Comparison(res),
		SubsetScore:       a.EvaluateFeatureSet(res.SelectedFeatures),
		FeatureImportance: a.FeatureImportances(res.SelectedFeatures),
		Evolution:         EvolutionSeries(res.History),
	}
}

// EvaluateFeatureSet cross-validates the given subset and summarizes the
// fold accuracies. Scoring failures yield the zero score rather than an
// error.
func (a *Analyzer) EvaluateFeatureSet(selected []int) model.FeatureSetScore {
	if len(selected) == 0 {
		return model.FeatureSetScore{}
	}
	scores, err := a.scorer.ScoreFolds(subsetColumns(a.ds.Features, selected), a.ds.Labels)
	if err != nil {
		return model.FeatureSetScore{}
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return model.FeatureSetScore{
		Accuracy: stat.Mean(scores, nil),
		Std:      stat.PopStdDev(scores, nil),
		Min:      lo,
		Max:      hi,
	}
}

// Comparison computes the headline reduction percentage and efficiency
// score for a result.
func (a *Analyzer) Comparison(res model.Result) model.Comparison {
	total := a.ds.FeatureCount()
	ratio := float64(res.FeatureCount) / float64(total)
	efficiency := 0.0
	if ratio > 0 {
		efficiency = res.Accuracy / ratio
	}
	return model.Comparison{
		TotalFeatures:       total,
		SelectedFeatures:    res.FeatureCount,
		ReductionPercentage: (1 - ratio) * 100,
		Accuracy:            res.Accuracy,
		EfficiencyScore:     efficiency,
		FitnessScore:        res.FitnessScore,
	}
}

// FeatureImportances fits one forest on the selected subset and returns
// per-feature importances normalized to sum to 100, in selected-feature
// order. Any fit failure falls back to a uniform split.
func (a *Analyzer) FeatureImportances(selected []int) []float64 {
	if len(selected) == 0 {
		return []float64{}
	}

	uniform := func() []float64 {
		out := make([]float64, len(selected))
		for i := range out {
			out[i] = 100.0 / float64(len(selected))
		}
		return out
	}

	importances, err := a.scorer.FitImportances(subsetColumns(a.ds.Features, selected), a.ds.Labels)
	if err != nil {
		return uniform()
	}
	total := 0.0
	for _, v := range importances {
		total += v
	}
	if total == 0 {
		return uniform()
	}
	out := make([]float64, len(importances))
	for i, v := range importances {
		out[i] = v / total * 100
	}
	return out
}

// EvolutionSeries transposes the history into per-metric columns for
// charting.
func EvolutionSeries(history []model.GenerationStats) model.EvolutionSeries {
	series := model.EvolutionSeries{
		Generations:   make([]int, 0, len(history)),
		BestFitness:   make([]float64, 0, len(history)),
		AvgFitness:    make([]float64, 0, len(history)),
		BestAccuracy:  make([]float64, 0, len(history)),
		AvgAccuracy:   make([]float64, 0, len(history)),
		FeatureCounts: make([]int, 0, len(history)),
		Diversity:     make([]float64, 0, len(history)),
		MutationRates: make([]float64, 0, len(history)),
	}
	for _, h := range history {
		series.Generations = append(series.Generations, h.Generation)
		series.BestFitness = append(series.BestFitness, h.BestFitness)
		series.AvgFitness = append(series.AvgFitness, h.AvgFitness)
		series.BestAccuracy = append(series.BestAccuracy, h.BestAccuracy)
		series.AvgAccuracy = append(series.AvgAccuracy, h.AvgAccuracy)
		series.FeatureCounts = append(series.FeatureCounts, h.FeatureCount)
		series.Diversity = append(series.Diversity, h.Diversity)
		series.MutationRates = append(series.MutationRates, h.MutationRate)
	}
	return series
}

func subsetColumns(X *mat.Dense, cols []int) *mat.Dense {
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
