package evo

import (
	"math/rand"
	"testing"

	"evoselect/internal/model"
)

func TestTournamentSelectPicksFittestOfFullSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := []model.Chromosome{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	fitness := []model.FitnessRecord{
		{Combined: 0.2},
		{Combined: 0.9},
		{Combined: 0.5},
		{Combined: 0.1},
	}

	// Sample size covering the whole population makes the winner
	// deterministic regardless of rng state.
	for i := 0; i < 20; i++ {
		winner := TournamentSelect(rng, population, fitness, len(population))
		if winner[1] != 1 || winner.SelectedCount() != 1 {
			t.Fatalf("expected fittest individual, got %v", winner)
		}
	}
}

func TestTournamentSelectReturnsCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	population := []model.Chromosome{{1, 0}, {0, 1}}
	fitness := []model.FitnessRecord{{Combined: 0.5}, {Combined: 0.5}}

	winner := TournamentSelect(rng, population, fitness, 2)
	winner[0] = 1
	winner[1] = 1
	for i, ch := range population {
		if ch.SelectedCount() != 1 {
			t.Fatalf("population member %d mutated through tournament winner: %v", i, ch)
		}
	}
}

func TestTournamentSelectClampsOversizedSample(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	population := []model.Chromosome{{1, 0}, {0, 1}}
	fitness := []model.FitnessRecord{{Combined: 0.1}, {Combined: 0.8}}

	winner := TournamentSelect(rng, population, fitness, 10)
	if winner[1] != 1 {
		t.Fatalf("expected fittest individual with clamped sample, got %v", winner)
	}
}

func TestUniformCrossoverRateZeroClonesParents(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p1 := model.Chromosome{1, 1, 0, 0}
	p2 := model.Chromosome{0, 0, 1, 1}

	c1, c2 := UniformCrossover(rng, p1, p2, 0)
	for i := range p1 {
		if c1[i] != p1[i] || c2[i] != p2[i] {
			t.Fatalf("rate 0 must pass parents through: got %v %v", c1, c2)
		}
	}
	c1[0] = 0
	if p1[0] != 1 {
		t.Fatal("child shares backing array with parent")
	}
}

func TestUniformCrossoverSwapsGenesPairwise(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	// Both parents keep genes 1 and 4 set, so neither child can go all-zero
	// and the repair step never interferes with the gene accounting.
	p1 := model.Chromosome{1, 1, 0, 0, 1, 1}
	p2 := model.Chromosome{0, 1, 1, 0, 1, 0}

	sawSwap := false
	for trial := 0; trial < 50; trial++ {
		c1, c2 := UniformCrossover(rng, p1, p2, 1)
		for i := range p1 {
			pair := c1[i] + c2[i]
			if pair != p1[i]+p2[i] {
				t.Fatalf("trial %d position %d lost genes: parents %d/%d children %d/%d",
					trial, i, p1[i], p2[i], c1[i], c2[i])
			}
			if c1[i] != p1[i] {
				sawSwap = true
			}
		}
	}
	if !sawSwap {
		t.Fatal("rate 1 crossover never exchanged a gene")
	}
}

func TestBitFlipRateZeroLeavesChromosome(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	ch := model.Chromosome{1, 0, 1, 0}

	out := BitFlip(rng, ch, 0)
	for i := range ch {
		if out[i] != ch[i] {
			t.Fatalf("rate 0 changed gene %d: %v", i, out)
		}
	}
	out[0] = 0
	if ch[0] != 1 {
		t.Fatal("mutant shares backing array with input")
	}
}

func TestBitFlipRateOneInvertsAndRepairs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ch := model.Chromosome{1, 1, 1, 1}

	out := BitFlip(rng, ch, 1)
	// Inverting all-ones yields all-zero, which repair must fix by
	// re-enabling exactly one gene.
	if out.SelectedCount() != 1 {
		t.Fatalf("expected exactly one selected gene after repair, got %v", out)
	}
	if ch.SelectedCount() != 4 {
		t.Fatalf("input chromosome mutated: %v", ch)
	}
}

func TestBitFlipNeverProducesEmptySelection(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for trial := 0; trial < 200; trial++ {
		ch := model.Chromosome{0, 0, 1, 0}
		out := BitFlip(rng, ch, 0.9)
		if out.SelectedCount() == 0 {
			t.Fatalf("trial %d produced an empty selection", trial)
		}
	}
}
