package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValidExtension reports whether the file name carries a supported tabular
// format extension.
func ValidExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Load reads a dataset file, dispatching on extension. targetColumn may be
// empty, in which case the last column is the target.
func Load(path, targetColumn string) (*Dataset, error) {
	table, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return prepare(table, targetColumn)
}

// LoadCSV parses a header-first CSV stream into a prepared Dataset.
func LoadCSV(in io.Reader, targetColumn string) (*Dataset, error) {
	table, err := readCSVRaw(in)
	if err != nil {
		return nil, err
	}
	return prepare(table, targetColumn)
}

// LoadXLSX reads the first sheet of an xlsx workbook into a prepared
// Dataset.
func LoadXLSX(path, targetColumn string) (*Dataset, error) {
	table, err := readXLSXRaw(path)
	if err != nil {
		return nil, err
	}
	return prepare(table, targetColumn)
}

func loadRaw(path string) (rawTable, error) {
	if !ValidExtension(path) {
		return rawTable{}, fmt.Errorf("unsupported dataset format: %s (want .csv or .xlsx)", filepath.Ext(path))
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSXRaw(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return rawTable{}, err
	}
	defer f.Close()
	return readCSVRaw(f)
}

func readCSVRaw(in io.Reader) (rawTable, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return rawTable{}, fmt.Errorf("dataset csv is empty")
	}
	if err != nil {
		return rawTable{}, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([][]string, 0, 1024)
	rowIndex := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rawTable{}, fmt.Errorf("read csv row %d: %w", rowIndex, err)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, normalizeRecord(record, len(header)))
		rowIndex++
	}

	return rawTable{header: header, rows: rows}, nil
}

func readXLSXRaw(path string) (rawTable, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return rawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return rawTable{}, fmt.Errorf("xlsx workbook has no sheets")
	}
	cells, err := book.GetRows(sheets[0])
	if err != nil {
		return rawTable{}, fmt.Errorf("read xlsx sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return rawTable{}, fmt.Errorf("xlsx sheet %s is empty", sheets[0])
	}

	header := make([]string, len(cells[0]))
	for i, cell := range cells[0] {
		header[i] = strings.TrimSpace(cell)
	}
	rows := make([][]string, 0, len(cells)-1)
	for _, record := range cells[1:] {
		if blankRecord(record) {
			continue
		}
		rows = append(rows, normalizeRecord(record, len(header)))
	}

	return rawTable{header: header, rows: rows}, nil
}

// normalizeRecord pads or truncates a record to the header width. Sparse
// xlsx rows come back shorter than the header.
func normalizeRecord(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	out := make([]string, width)
	copy(out, record)
	return out
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
