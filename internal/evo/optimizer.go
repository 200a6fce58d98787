package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"evoselect/internal/dataset"
	"evoselect/internal/model"
	"evoselect/internal/scorer"
)

// Config fixes the evolutionary parameters for one optimization run. Only
// the mutation rate has derived state; everything else is immutable for the
// run's lifetime.
type Config struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	EliteFraction  float64
	TournamentSize int
	// Seed drives all engine randomness. Zero means time-based.
	Seed int64
}

// DefaultConfig is the reference parameterization.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 60,
		Generations:    50,
		MutationRate:   0.15,
		CrossoverRate:  0.85,
		EliteFraction:  0.1,
		TournamentSize: 5,
	}
}

// Optimizer runs the generational feature selection search. One instance
// serves exactly one run; concurrent runs need independent instances.
type Optimizer struct {
	cfg        Config
	rng        *rand.Rand
	evaluator  *Evaluator
	mutation   *Controller
	features   int
	eliteCount int
}

// NewOptimizer validates the configuration, standardizes the feature matrix
// once for the whole run and prepares the engine. All configuration errors
// surface here; Evolve has no caller-visible failure path of its own.
func NewOptimizer(ds *dataset.Dataset, sc scorer.Scorer, cfg Config) (*Optimizer, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if sc == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	features := ds.FeatureCount()
	if features == 0 {
		return nil, fmt.Errorf("dataset has no feature columns")
	}
	if ds.Rows() != len(ds.Labels) {
		return nil, fmt.Errorf("dataset row mismatch: %d feature rows, %d labels", ds.Rows(), len(ds.Labels))
	}
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be >= 2, got %d", cfg.PopulationSize)
	}
	if cfg.Generations < 1 {
		return nil, fmt.Errorf("generations must be >= 1, got %d", cfg.Generations)
	}
	if cfg.MutationRate <= 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in (0, 1], got %v", cfg.MutationRate)
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0, 1], got %v", cfg.CrossoverRate)
	}
	if cfg.EliteFraction <= 0 || cfg.EliteFraction > 1 {
		return nil, fmt.Errorf("elite fraction must be in (0, 1], got %v", cfg.EliteFraction)
	}
	if cfg.TournamentSize < 1 {
		return nil, fmt.Errorf("tournament size must be >= 1, got %d", cfg.TournamentSize)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	eliteCount := int(cfg.EliteFraction * float64(cfg.PopulationSize))
	if eliteCount < 1 {
		eliteCount = 1
	}

	return &Optimizer{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		evaluator:  NewEvaluator(dataset.Standardize(ds.Features), ds.Labels, sc),
		mutation:   NewController(cfg.MutationRate),
		features:   features,
		eliteCount: eliteCount,
	}, nil
}

// Evolve runs the full generational loop and returns the best-ever
// chromosome with the per-generation history. A run always completes its
// configured generation count; the only early exit is context cancellation.
func (o *Optimizer) Evolve(ctx context.Context) (model.Result, error) {
	population := InitialPopulation(o.rng, o.cfg.PopulationSize, o.features)

	var best model.Chromosome
	var bestRecord model.FitnessRecord
	bestFitness := math.Inf(-1)
	history := make([]model.GenerationStats, 0, o.cfg.Generations)

	for gen := 0; gen < o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return model.Result{}, err
		}

		records := make([]model.FitnessRecord, len(population))
		for i, ch := range population {
			records[i] = o.evaluator.Evaluate(ch)
		}

		for i, rec := range records {
			if rec.Combined > bestFitness {
				bestFitness = rec.Combined
				bestRecord = rec
				best = population[i].Clone()
			}
		}

		diversity := Diversity(population, o.features)
		o.mutation.Adapt(diversity)

		history = append(history, model.GenerationStats{
			Generation:   gen + 1,
			BestFitness:  bestFitness,
			BestAccuracy: bestRecord.Accuracy,
			AvgFitness:   meanCombined(records),
			AvgAccuracy:  meanAccuracy(records),
			FeatureCount: best.SelectedCount(),
			MutationRate: o.mutation.Rate(),
			Diversity:    diversity,
		})

		population = o.nextGeneration(population, records)
	}

	return model.Result{
		SelectedFeatures: best.SelectedIndices(),
		FeatureCount:     best.SelectedCount(),
		Accuracy:         bestRecord.Accuracy,
		FitnessScore:     bestFitness,
		FeatureRatio:     bestRecord.FeatureRatio,
		History:          history,
	}, nil
}

// nextGeneration applies elitism then fills the remainder with tournament
// parents crossed and mutated pairwise. Parents come from the pre-elitism
// population; the offspring overshoot is truncated to the population size.
func (o *Optimizer) nextGeneration(population []model.Chromosome, records []model.FitnessRecord) []model.Chromosome {
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps original population order on fitness ties, which
	// fixes the elitism cut deterministically.
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].Combined > records[order[b]].Combined
	})

	next := make([]model.Chromosome, 0, o.cfg.PopulationSize+1)
	for _, idx := range order[:o.eliteCount] {
		next = append(next, population[idx].Clone())
	}

	for len(next) < o.cfg.PopulationSize {
		p1 := TournamentSelect(o.rng, population, records, o.cfg.TournamentSize)
		p2 := TournamentSelect(o.rng, population, records, o.cfg.TournamentSize)
		c1, c2 := UniformCrossover(o.rng, p1, p2, o.cfg.CrossoverRate)
		c1 = BitFlip(o.rng, c1, o.mutation.Rate())
		c2 = BitFlip(o.rng, c2, o.mutation.Rate())
		next = append(next, c1, c2)
	}
	return next[:o.cfg.PopulationSize]
}

func meanCombined(records []model.FitnessRecord) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.Combined
	}
	return total / float64(len(records))
}

func meanAccuracy(records []model.FitnessRecord) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.Accuracy
	}
	return total / float64(len(records))
}
