//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"evoselect/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "evoselect.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	result := model.Result{
		SelectedFeatures: []int{0, 3},
		FeatureCount:     2,
		Accuracy:         0.91,
		FitnessScore:     0.86,
		History:          []model.GenerationStats{{Generation: 1, BestFitness: 0.86}},
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
	if got.FeatureCount != 2 || got.Accuracy != 0.91 || len(got.History) != 1 {
		t.Fatalf("result round trip = %+v", got)
	}
	if got.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("stored result schema version %d", got.SchemaVersion)
	}

	if _, ok, err := store.GetResult(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent run: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreUpsertsPayload(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := store.SaveResult(ctx, "run-2", model.Result{Accuracy: 0.5}); err != nil {
		t.Fatalf("save result: %v", err)
	}
	if err := store.SaveResult(ctx, "run-2", model.Result{Accuracy: 0.9}); err != nil {
		t.Fatalf("save result: %v", err)
	}

	got, ok, err := store.GetResult(ctx, "run-2")
	if err != nil || !ok {
		t.Fatalf("get result: ok=%v err=%v", ok, err)
	}
	if got.Accuracy != 0.9 {
		t.Fatalf("upsert kept accuracy %v, want 0.9", got.Accuracy)
	}
}

func TestSQLiteStoreHistoryAndReport(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	history := []model.GenerationStats{
		{Generation: 1, BestFitness: 0.6},
		{Generation: 2, BestFitness: 0.7},
	}
	if err := store.SaveHistory(ctx, "run-3", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	gotHistory, ok, err := store.GetHistory(ctx, "run-3")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%v err=%v", ok, err)
	}
	if len(gotHistory) != 2 || gotHistory[1].BestFitness != 0.7 {
		t.Fatalf("history round trip = %+v", gotHistory)
	}

	report := model.Report{Comparison: model.Comparison{TotalFeatures: 6}}
	if err := store.SaveReport(ctx, "run-3", report); err != nil {
		t.Fatalf("save report: %v", err)
	}
	gotReport, ok, err := store.GetReport(ctx, "run-3")
	if err != nil || !ok {
		t.Fatalf("get report: ok=%v err=%v", ok, err)
	}
	if gotReport.Comparison.TotalFeatures != 6 {
		t.Fatalf("report round trip = %+v", gotReport)
	}
}

func TestSQLiteStoreUninitialized(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "evoselect.db"))
	if err := store.SaveResult(context.Background(), "run-4", model.Result{}); err == nil {
		t.Fatal("expected an error before Init")
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}
