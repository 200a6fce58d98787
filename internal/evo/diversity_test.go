package evo

import (
	"math/rand"
	"testing"

	"evoselect/internal/model"
)

func TestDiversityIdenticalPopulation(t *testing.T) {
	population := []model.Chromosome{
		{1, 0, 1, 0},
		{1, 0, 1, 0},
		{1, 0, 1, 0},
	}
	if d := Diversity(population, 4); d != 0 {
		t.Fatalf("expected zero diversity, got %v", d)
	}
}

func TestDiversityComplementaryPair(t *testing.T) {
	population := []model.Chromosome{
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	}
	if d := Diversity(population, 4); d != 1 {
		t.Fatalf("expected diversity 1, got %v", d)
	}
}

func TestDiversityDegenerateInputs(t *testing.T) {
	if d := Diversity(nil, 4); d != 0 {
		t.Fatalf("expected 0 for empty population, got %v", d)
	}
	if d := Diversity([]model.Chromosome{{1, 0}}, 2); d != 0 {
		t.Fatalf("expected 0 for single individual, got %v", d)
	}
	if d := Diversity([]model.Chromosome{{}, {}}, 0); d != 0 {
		t.Fatalf("expected 0 for zero features, got %v", d)
	}
}

func TestDiversityLargePopulationStaysNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	population := make([]model.Chromosome, 120)
	for i := range population {
		ch := make(model.Chromosome, 16)
		for j := range ch {
			ch[j] = rng.Intn(2)
		}
		population[i] = ch
	}

	d := Diversity(population, 16)
	if d < 0 || d > 1 {
		t.Fatalf("diversity %v outside [0, 1]", d)
	}
	if d == 0 {
		t.Fatal("random population should not be fully uniform")
	}
}
