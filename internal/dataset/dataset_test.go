package dataset

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func loadTestCSV(t *testing.T, csv, target string) *Dataset {
	t.Helper()
	ds, err := LoadCSV(strings.NewReader(csv), target)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	return ds
}

func TestLoadCSVDefaultsToLastColumnTarget(t *testing.T) {
	ds := loadTestCSV(t, "a,b,label\n1,2,yes\n3,4,no\n5,6,yes\n", "")

	if ds.TargetName != "label" {
		t.Fatalf("target = %q, want label", ds.TargetName)
	}
	if len(ds.FeatureNames) != 2 || ds.FeatureNames[0] != "a" || ds.FeatureNames[1] != "b" {
		t.Fatalf("feature names = %v", ds.FeatureNames)
	}
	if ds.Rows() != 3 || ds.FeatureCount() != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", ds.Rows(), ds.FeatureCount())
	}
	// Lexical encoding: "no" -> 0, "yes" -> 1.
	want := []int{1, 0, 1}
	for i, label := range ds.Labels {
		if label != want[i] {
			t.Fatalf("labels = %v, want %v", ds.Labels, want)
		}
	}
}

func TestLoadCSVNamedTarget(t *testing.T) {
	ds := loadTestCSV(t, "label,a,b\nyes,1,2\nno,3,4\n", "label")

	if ds.TargetName != "label" {
		t.Fatalf("target = %q, want label", ds.TargetName)
	}
	if len(ds.FeatureNames) != 2 || ds.FeatureNames[0] != "a" {
		t.Fatalf("feature names = %v", ds.FeatureNames)
	}
}

func TestLoadCSVUnknownTargetFallsBackToLastColumn(t *testing.T) {
	ds := loadTestCSV(t, "a,b,label\n1,2,yes\n3,4,no\n", "missing")

	if ds.TargetName != "label" {
		t.Fatalf("target = %q, want last column fallback", ds.TargetName)
	}
}

func TestLoadCSVDropsNonNumericFeatures(t *testing.T) {
	ds := loadTestCSV(t, "a,city,b,label\n1,berlin,2,yes\n3,paris,4,no\n", "")

	if len(ds.FeatureNames) != 2 {
		t.Fatalf("feature names = %v, want text column dropped", ds.FeatureNames)
	}
	for _, name := range ds.FeatureNames {
		if name == "city" {
			t.Fatal("text column survived preparation")
		}
	}
}

func TestLoadCSVFillsMissingWithColumnMean(t *testing.T) {
	ds := loadTestCSV(t, "a,label\n1,x\n,x\n3,y\n", "")

	if got := ds.Features.At(1, 0); got != 2 {
		t.Fatalf("missing cell filled with %v, want column mean 2", got)
	}
}

func TestLoadCSVMissingVariants(t *testing.T) {
	ds := loadTestCSV(t, "a,label\n2,x\nNA,x\nnan,y\nNULL,y\n", "")

	for r := 1; r < 4; r++ {
		if got := ds.Features.At(r, 0); got != 2 {
			t.Fatalf("row %d filled with %v, want 2", r, got)
		}
	}
}

func TestLoadCSVNumericLabelsKeepValueOrder(t *testing.T) {
	ds := loadTestCSV(t, "a,label\n1,10\n2,2\n3,10\n", "")

	want := []int{1, 0, 1}
	for i, label := range ds.Labels {
		if label != want[i] {
			t.Fatalf("labels = %v, want %v (numeric order, not lexical)", ds.Labels, want)
		}
	}
}

func TestLoadCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"empty stream", ""},
		{"header only", "a,b,label\n"},
		{"no numeric features", "city,label\nberlin,x\nparis,y\n"},
		{"missing label", "a,label\n1,x\n2,\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCSV(strings.NewReader(tc.csv), ""); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadCSVSkipsBlankLines(t *testing.T) {
	ds := loadTestCSV(t, "a,label\n1,x\n,,\n2,y\n", "")

	if ds.Rows() != 2 {
		t.Fatalf("rows = %d, want blank line skipped", ds.Rows())
	}
}

func TestValidExtension(t *testing.T) {
	cases := map[string]bool{
		"data.csv":  true,
		"data.CSV":  true,
		"data.xlsx": true,
		"data.xls":  false,
		"data.json": false,
		"data":      false,
	}
	for name, want := range cases {
		if got := ValidExtension(name); got != want {
			t.Fatalf("ValidExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStandardizeCentersAndScales(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	})

	out := Standardize(X)
	rows, _ := out.Dims()

	sum, sumSq := 0.0, 0.0
	for r := 0; r < rows; r++ {
		v := out.At(r, 0)
		sum += v
		sumSq += v * v
	}
	if math.Abs(sum) > 1e-12 {
		t.Fatalf("standardized column mean %v, want 0", sum/4)
	}
	if math.Abs(sumSq/4-1) > 1e-12 {
		t.Fatalf("standardized column variance %v, want 1", sumSq/4)
	}

	// The constant column maps to zero instead of dividing by zero.
	for r := 0; r < rows; r++ {
		if out.At(r, 1) != 0 {
			t.Fatalf("constant column row %d = %v, want 0", r, out.At(r, 1))
		}
	}

	if X.At(0, 0) != 1 {
		t.Fatal("standardize mutated its input")
	}
}
