package evo

import (
	"math/rand"

	"evoselect/internal/model"
)

// TournamentSelect samples size distinct individuals uniformly and returns a
// copy of the one with the highest combined fitness, first-seen winning
// ties. The copy keeps callers from mutating population members in place.
func TournamentSelect(rng *rand.Rand, population []model.Chromosome, fitness []model.FitnessRecord, size int) model.Chromosome {
	if size > len(population) {
		size = len(population)
	}
	if size < 1 {
		size = 1
	}
	sampled := rng.Perm(len(population))[:size]
	winner := sampled[0]
	for _, idx := range sampled[1:] {
		if fitness[idx].Combined > fitness[winner].Combined {
			winner = idx
		}
	}
	return population[winner].Clone()
}

// UniformCrossover produces two children by swapping genes position-wise
// with a fair coin, or plain parent copies when the crossover coin fails.
// Children are repaired so neither leaves all-zero.
func UniformCrossover(rng *rand.Rand, p1, p2 model.Chromosome, rate float64) (model.Chromosome, model.Chromosome) {
	if rng.Float64() > rate {
		return p1.Clone(), p2.Clone()
	}

	c1 := make(model.Chromosome, len(p1))
	c2 := make(model.Chromosome, len(p1))
	for i := range p1 {
		if rng.Float64() < 0.5 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	return repair(rng, c1), repair(rng, c2)
}

// BitFlip flips each gene independently at the given rate and repairs the
// result. The input chromosome is never modified.
func BitFlip(rng *rand.Rand, ch model.Chromosome, rate float64) model.Chromosome {
	mutated := ch.Clone()
	for i := range mutated {
		if rng.Float64() < rate {
			mutated[i] = 1 - mutated[i]
		}
	}
	return repair(rng, mutated)
}

// repair enforces the at-least-one-gene invariant by forcing one random
// position on. A degenerate mask is an expected operator byproduct, not an
// error.
func repair(rng *rand.Rand, ch model.Chromosome) model.Chromosome {
	if ch.SelectedCount() == 0 {
		ch[rng.Intn(len(ch))] = 1
	}
	return ch
}
