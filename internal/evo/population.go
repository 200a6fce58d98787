package evo

import (
	"math"
	"math/rand"

	"evoselect/internal/model"
)

// densityBand is one row of the initialization rule table: a share of the
// population plus a draw for how many features its chromosomes select.
// The 0.6/0.2/0.2 shares and the count ranges are tuned constants.
type densityBand struct {
	share float64
	count func(rng *rand.Rand, features int) int
}

var densityBands = []densityBand{
	// Random selection with varying densities.
	{share: 0.6, count: func(rng *rand.Rand, features int) int {
		rate := 0.2 + rng.Float64()*0.5
		return maxInt(1, int(float64(features)*rate))
	}},
	// Small feature sets.
	{share: 0.2, count: func(rng *rand.Rand, features int) int {
		return randRange(rng, 1, maxInt(2, features/4))
	}},
	// Large feature sets; absorbs rounding remainder.
	{share: 0.2, count: func(rng *rand.Rand, features int) int {
		lo := maxInt(1, features/2)
		hi := maxInt(2, int(math.Ceil(float64(features)*0.8)))
		if hi < lo {
			hi = lo
		}
		return randRange(rng, lo, hi)
	}},
}

// InitialPopulation builds generation zero from the density band table. The
// final band fills whatever the earlier quotas left open, so the result is
// always exactly size chromosomes, none all-zero.
func InitialPopulation(rng *rand.Rand, size, features int) []model.Chromosome {
	population := make([]model.Chromosome, 0, size)
	for _, band := range densityBands[:len(densityBands)-1] {
		quota := int(float64(size) * band.share)
		for i := 0; i < quota && len(population) < size; i++ {
			population = append(population, randomChromosome(rng, features, band.count(rng, features)))
		}
	}
	last := densityBands[len(densityBands)-1]
	for len(population) < size {
		population = append(population, randomChromosome(rng, features, last.count(rng, features)))
	}
	return population
}

// randomChromosome selects a uniform without-replacement sample of gene
// positions. The requested count is clamped to [1, features].
func randomChromosome(rng *rand.Rand, features, selected int) model.Chromosome {
	if selected < 1 {
		selected = 1
	}
	if selected > features {
		selected = features
	}
	ch := make(model.Chromosome, features)
	for _, idx := range rng.Perm(features)[:selected] {
		ch[idx] = 1
	}
	return ch
}

// randRange draws uniformly from the inclusive range [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
