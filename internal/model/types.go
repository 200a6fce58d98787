package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Chromosome is a binary feature-inclusion mask, one gene per dataset column.
// A gene value of 1 selects the corresponding feature.
type Chromosome []int

// Clone returns an independent copy so variation operators never alias a
// parent.
func (c Chromosome) Clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// SelectedCount reports how many genes are set.
func (c Chromosome) SelectedCount() int {
	n := 0
	for _, gene := range c {
		if gene == 1 {
			n++
		}
	}
	return n
}

// SelectedIndices returns the set gene positions in ascending order.
func (c Chromosome) SelectedIndices() []int {
	out := make([]int, 0, len(c))
	for i, gene := range c {
		if gene == 1 {
			out = append(out, i)
		}
	}
	return out
}

// FitnessRecord is the multi-objective score of one chromosome.
type FitnessRecord struct {
	Accuracy     float64 `json:"accuracy"`
	FeatureRatio float64 `json:"feature_ratio"`
	Combined     float64 `json:"combined_fitness"`
}

// GenerationStats is one row of the evolution history. The best_* fields
// track the best-ever individual as of that generation while the avg_*
// fields describe the generation's own population.
type GenerationStats struct {
	Generation   int     `json:"generation"`
	BestFitness  float64 `json:"best_fitness"`
	BestAccuracy float64 `json:"best_accuracy"`
	AvgFitness   float64 `json:"avg_fitness"`
	AvgAccuracy  float64 `json:"avg_accuracy"`
	FeatureCount int     `json:"feature_count"`
	MutationRate float64 `json:"mutation_rate"`
	Diversity    float64 `json:"diversity"`
}

// Result is the outcome of one full optimization run.
type Result struct {
	VersionedRecord
	SelectedFeatures []int             `json:"selected_features"`
	FeatureNames     []string          `json:"feature_names,omitempty"`
	FeatureCount     int               `json:"feature_count"`
	Accuracy         float64           `json:"accuracy"`
	FitnessScore     float64           `json:"fitness_score"`
	FeatureRatio     float64           `json:"feature_ratio"`
	History          []GenerationStats `json:"evolution_history"`
}

// FeatureSetScore summarizes cross-validated accuracy of a fixed subset.
type FeatureSetScore struct {
	Accuracy float64 `json:"accuracy"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Comparison holds headline reduction and efficiency metrics for a result.
type Comparison struct {
	TotalFeatures       int     `json:"total_features"`
	SelectedFeatures    int     `json:"selected_features"`
	ReductionPercentage float64 `json:"reduction_percentage"`
	Accuracy            float64 `json:"accuracy"`
	EfficiencyScore     float64 `json:"efficiency_score"`
	FitnessScore        float64 `json:"fitness_score"`
}

// EvolutionSeries is the history transposed into per-metric columns for
// charting consumers.
type EvolutionSeries struct {
	Generations   []int     `json:"generations"`
	BestFitness   []float64 `json:"best_fitness"`
	AvgFitness    []float64 `json:"avg_fitness"`
	BestAccuracy  []float64 `json:"best_accuracy"`
	AvgAccuracy   []float64 `json:"avg_accuracy"`
	FeatureCounts []int     `json:"feature_counts"`
	Diversity     []float64 `json:"diversity"`
	MutationRates []float64 `json:"mutation_rates"`
}

// Report is the downstream analysis built from a Result.
type Report struct {
	VersionedRecord
	Comparison        Comparison      `json:"comparison"`
	SubsetScore       FeatureSetScore `json:"subset_score"`
	FeatureImportance []float64       `json:"feature_importance"`
	Evolution         EvolutionSeries `json:"evolution"`
}
