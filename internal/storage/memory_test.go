package storage

import (
	"context"
	"testing"

	"evoselect/internal/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	result := model.Result{
		SelectedFeatures: []int{1, 3},
		FeatureCount:     2,
		Accuracy:         0.9,
		FitnessScore:     0.85,
	}
	if err := store.SaveResult(ctx, "run-1", result); err != nil {
		t.Fatalf("save result: %v", err)
	}

	got, ok, err := store.GetResult(ctx, "run-1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if !ok {
		t.Fatal("expected result to exist")
	}
	if got.FeatureCount != 2 || got.Accuracy != 0.9 {
		t.Fatalf("result round trip = %+v", got)
	}

	if _, ok, err := store.GetResult(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent run: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreHistoryIsCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	history := []model.GenerationStats{{Generation: 1, BestFitness: 0.5}}
	if err := store.SaveHistory(ctx, "run-2", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history[0].BestFitness = 0.99

	got, ok, err := store.GetHistory(ctx, "run-2")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%v err=%v", ok, err)
	}
	if got[0].BestFitness != 0.5 {
		t.Fatalf("stored history aliased the caller's slice: %+v", got)
	}

	got[0].BestFitness = 0.1
	again, _, err := store.GetHistory(ctx, "run-2")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if again[0].BestFitness != 0.5 {
		t.Fatalf("returned history aliased the stored slice: %+v", again)
	}
}

func TestMemoryStoreReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	report := model.Report{
		Comparison: model.Comparison{TotalFeatures: 5, SelectedFeatures: 2},
	}
	if err := store.SaveReport(ctx, "run-3", report); err != nil {
		t.Fatalf("save report: %v", err)
	}

	got, ok, err := store.GetReport(ctx, "run-3")
	if err != nil || !ok {
		t.Fatalf("get report: ok=%v err=%v", ok, err)
	}
	if got.Comparison.TotalFeatures != 5 {
		t.Fatalf("report round trip = %+v", got)
	}
}
