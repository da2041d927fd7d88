package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"inventory-chart-backend/internal/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no header row")
)

// Load reads an uploaded table, choosing the decoder from the file extension.
func Load(filename string, r io.Reader) (*model.Dataset, error) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LoadCSV(name, r, ',')
	case ".tsv":
		return LoadCSV(name, r, '\t')
	case ".xlsx", ".xlsm":
		return LoadXLSX(name, r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func LoadCSV(name string, r io.Reader, comma rune) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return fromTable(name, records)
}

// LoadXLSX reads the first worksheet of a workbook.
func LoadXLSX(name string, r io.Reader) (*model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromTable(name, rows)
}

func fromTable(name string, records [][]string) (*model.Dataset, error) {
	start := 0
	for start < len(records) && isBlankRow(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, ErrEmptyFile
	}
	header := records[start]
	var rows [][]string
	for _, rec := range records[start+1:] {
		if !isBlankRow(rec) {
			rows = append(rows, rec)
		}
	}
	return FromRecords(name, header, rows), nil
}

// FromRecords builds a dataset from a header and string rows. Column names are
// normalized and kinds inferred here, once, so that every later consumer sees the same
// names. Short rows are padded with missing cells and extra cells are dropped.
func FromRecords(name string, header []string, rows [][]string) *model.Dataset {
	names := NormalizeColumnNames(header)
	columns := make([]model.Column, len(names))
	for c, colName := range names {
		cells := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = strings.TrimSpace(row[c])
			}
		}
		columns[c] = inferColumn(colName, cells)
	}
	return model.NewDataset(name, columns)
}

// NormalizeColumnNames trims names, joins inner whitespace with underscores, names empty
// headers column_N and suffixes duplicates with _2, _3, ...
func NormalizeColumnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.Join(strings.Fields(h), "_")
		if n == "" {
			n = fmt.Sprintf("column_%d", i+1)
		}
		base := n
		for seen[n] > 0 {
			seen[base]++
			n = fmt.Sprintf("%s_%d", base, seen[base])
		}
		seen[n]++
		names[i] = n
	}
	return names
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
