package evo

import "evoselect/internal/model"

// diversitySampleLimit bounds the pairwise scan to the first 50 individuals.
// Full pairwise comparison is quadratic in the population size; the sample
// trades a little accuracy for a fixed cost.
const diversitySampleLimit = 50

// Diversity approximates mean pairwise normalized Hamming distance over the
// sampled prefix of the population. It returns 0 when fewer than two
// individuals can be compared.
func Diversity(population []model.Chromosome, features int) float64 {
	if len(population) < 2 || features == 0 {
		return 0
	}

	limit := len(population)
	if limit > diversitySampleLimit {
		limit = diversitySampleLimit
	}

	totalDistance := 0
	comparisons := 0
	for i := 0; i < limit; i++ {
		for j := i + 1; j < limit; j++ {
			for k := range population[i] {
				if population[i][k] != population[j][k] {
					totalDistance++
				}
			}
			comparisons++
		}
	}
	if comparisons == 0 {
		return 0
	}
	return float64(totalDistance) / (float64(comparisons) * float64(features))
}
