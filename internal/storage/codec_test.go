package storage

import (
	"errors"
	"testing"

	"evoselect/internal/model"
)

func TestResultCodecRoundTrip(t *testing.T) {
	in := model.Result{
		SelectedFeatures: []int{0, 2, 4},
		FeatureNames:     []string{"a", "c", "e"},
		FeatureCount:     3,
		Accuracy:         0.92,
		FitnessScore:     0.87,
		FeatureRatio:     0.6,
		History:          []model.GenerationStats{{Generation: 1, BestFitness: 0.87}},
	}

	data, err := EncodeResult(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeResult(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SchemaVersion != CurrentSchemaVersion || out.CodecVersion != CurrentCodecVersion {
		t.Fatalf("versions not stamped: %+v", out.VersionedRecord)
	}
	if out.FeatureCount != 3 || out.Accuracy != 0.92 || len(out.History) != 1 {
		t.Fatalf("result round trip = %+v", out)
	}
}

func TestDecodeResultRejectsVersionMismatch(t *testing.T) {
	data := []byte(`{"schema_version": 99, "codec_version": 1, "selected_features": []}`)
	if _, err := DecodeResult(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestDecodeReportRejectsVersionMismatch(t *testing.T) {
	data := []byte(`{"schema_version": 1, "codec_version": 0}`)
	if _, err := DecodeReport(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestReportCodecRoundTrip(t *testing.T) {
	in := model.Report{
		Comparison:        model.Comparison{TotalFeatures: 10, SelectedFeatures: 3, ReductionPercentage: 70},
		FeatureImportance: []float64{50, 30, 20},
	}

	data, err := EncodeReport(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeReport(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Comparison.ReductionPercentage != 70 || len(out.FeatureImportance) != 3 {
		t.Fatalf("report round trip = %+v", out)
	}
}

func TestHistoryCodecRoundTrip(t *testing.T) {
	in := []model.GenerationStats{
		{Generation: 1, BestFitness: 0.5, Diversity: 0.8},
		{Generation: 2, BestFitness: 0.6, Diversity: 0.4},
	}

	data, err := EncodeHistory(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[1].Diversity != 0.4 {
		t.Fatalf("history round trip = %+v", out)
	}
}

func TestNewStoreKinds(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("memory kind returned %T", store)
	}

	store, err = NewStore("", "")
	if err != nil {
		t.Fatalf("new default store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("default kind returned %T", store)
	}

	if _, err := NewStore("bolt", ""); err == nil {
		t.Fatal("expected an error for an unknown store kind")
	}
}
