package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Dataset is a prepared tabular classification dataset: a numeric feature
// matrix plus an encoded label vector.
type Dataset struct {
	Features     *mat.Dense
	Labels       []int
	FeatureNames []string
	TargetName   string
}

func (d *Dataset) Rows() int {
	r, _ := d.Features.Dims()
	return r
}

func (d *Dataset) FeatureCount() int {
	_, c := d.Features.Dims()
	return c
}

// rawTable is a parsed sheet before numeric preparation.
type rawTable struct {
	header []string
	rows   [][]string
}

// prepare turns a raw table into a Dataset: the target column is resolved
// (default last), non-numeric feature columns are dropped, missing numeric
// values are filled with the column mean and labels are encoded to ordinal
// codes.
func prepare(table rawTable, targetColumn string) (*Dataset, error) {
	if len(table.header) == 0 {
		return nil, fmt.Errorf("dataset has no columns")
	}
	if len(table.rows) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}
	for i, row := range table.rows {
		if len(row) != len(table.header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(table.header))
		}
	}

	targetIdx := len(table.header) - 1
	if targetColumn != "" {
		targetIdx = -1
		for i, name := range table.header {
			if name == targetColumn {
				targetIdx = i
				break
			}
		}
		if targetIdx < 0 {
			targetIdx = len(table.header) - 1
		}
	}

	type column struct {
		name   string
		values []float64
	}
	columns := make([]column, 0, len(table.header)-1)
	for c, name := range table.header {
		if c == targetIdx {
			continue
		}
		values, ok := numericColumn(table.rows, c)
		if !ok {
			continue
		}
		columns = append(columns, column{name: name, values: values})
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset has no numeric feature columns")
	}

	rows := len(table.rows)
	features := mat.NewDense(rows, len(columns), nil)
	names := make([]string, len(columns))
	for c, col := range columns {
		names[c] = col.name
		for r := 0; r < rows; r++ {
			features.Set(r, c, col.values[r])
		}
	}

	labels, err := encodeLabels(table.rows, targetIdx)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Features:     features,
		Labels:       labels,
		FeatureNames: names,
		TargetName:   table.header[targetIdx],
	}, nil
}

// numericColumn parses one column as floats, filling missing cells with the
// column mean. It reports false when any present cell is non-numeric or the
// whole column is missing.
func numericColumn(rows [][]string, col int) ([]float64, bool) {
	values := make([]float64, len(rows))
	missing := make([]bool, len(rows))
	sum := 0.0
	present := 0
	for r, row := range rows {
		cell := strings.TrimSpace(row[col])
		if missingCell(cell) {
			missing[r] = true
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values[r] = v
		sum += v
		present++
	}
	if present == 0 {
		return nil, false
	}
	mean := sum / float64(present)
	for r := range values {
		if missing[r] {
			values[r] = mean
		}
	}
	return values, true
}

func missingCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

// encodeLabels maps the target column to ordinal codes. Distinct values are
// ordered ascending (numerically when every label parses as a number,
// lexically otherwise), so equal raw labels always share a code.
func encodeLabels(rows [][]string, col int) ([]int, error) {
	raw := make([]string, len(rows))
	numeric := true
	parsed := make([]float64, len(rows))
	for r, row := range rows {
		cell := strings.TrimSpace(row[col])
		if missingCell(cell) {
			return nil, fmt.Errorf("missing label in row %d", r+1)
		}
		raw[r] = cell
		if numeric {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric = false
			} else {
				parsed[r] = v
			}
		}
	}

	codes := make(map[string]int, len(raw))
	if numeric {
		distinct := make([]float64, 0, len(raw))
		seen := make(map[float64]struct{}, len(raw))
		for r := range raw {
			if _, ok := seen[parsed[r]]; !ok {
				seen[parsed[r]] = struct{}{}
				distinct = append(distinct, parsed[r])
			}
		}
		sort.Float64s(distinct)
		byValue := make(map[float64]int, len(distinct))
		for i, v := range distinct {
			byValue[v] = i
		}
		labels := make([]int, len(raw))
		for r := range raw {
			labels[r] = byValue[parsed[r]]
		}
		return labels, nil
	}

	distinct := make([]string, 0, len(raw))
	for _, cell := range raw {
		if _, ok := codes[cell]; !ok {
			codes[cell] = 0
			distinct = append(distinct, cell)
		}
	}
	sort.Strings(distinct)
	for i, cell := range distinct {
		codes[cell] = i
	}
	labels := make([]int, len(raw))
	for r, cell := range raw {
		labels[r] = codes[cell]
	}
	return labels, nil
}

// Standardize returns a copy of X with each column shifted to zero mean and
// scaled to unit variance. Constant columns keep scale 1 so they map to zero
// rather than dividing by zero.
func Standardize(X *mat.Dense) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, X)
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		for r := 0; r < rows; r++ {
			out.Set(r, c, (col[r]-mean)/std)
		}
	}
	return out
}
