package dataset

import (
	"strconv"
	"strings"
)

// Info describes a parsed table before preparation, for callers that want
// column metadata without running an optimization.
type Info struct {
	Columns     []string          `json:"columns"`
	TotalRows   int               `json:"total_rows"`
	TotalCols   int               `json:"total_features"`
	ColumnTypes map[string]string `json:"column_types"`
}

// Describe inspects a dataset file and reports its shape and per-column
// inferred types ("numeric" or "text").
func Describe(path string) (Info, error) {
	table, err := loadRaw(path)
	if err != nil {
		return Info{}, err
	}

	types := make(map[string]string, len(table.header))
	for c, name := range table.header {
		types[name] = columnType(table.rows, c)
	}
	return Info{
		Columns:     append([]string(nil), table.header...),
		TotalRows:   len(table.rows),
		TotalCols:   len(table.header),
		ColumnTypes: types,
	}, nil
}

func columnType(rows [][]string, col int) string {
	present := 0
	for _, row := range rows {
		cell := strings.TrimSpace(row[col])
		if missingCell(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return "text"
		}
		present++
	}
	if present == 0 {
		return "text"
	}
	return "numeric"
}
