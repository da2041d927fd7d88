package model

import (
	"math"
	"time"
)

type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindDatetime    ColumnKind = "datetime"
)

// Column holds one column of an uploaded table. Raw is always populated; Numbers is
// populated for numeric columns (NaN marks a missing cell) and Times for datetime
// columns (zero time marks a missing cell).
type Column struct {
	Name    string
	Kind    ColumnKind
	Raw     []string
	Numbers []float64
	Times   []time.Time
}

func (c *Column) Len() int {
	return len(c.Raw)
}

func (c *Column) IsMissing(row int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Numbers[row])
	case KindDatetime:
		return c.Times[row].IsZero()
	default:
		return c.Raw[row] == ""
	}
}

// Dataset is a read-only table. It is never mutated after construction, so it can be
// shared between concurrent renders.
type Dataset struct {
	Name     string
	Columns  []Column
	rowCount int
	index    map[string]int
}

func NewDataset(name string, columns []Column) *Dataset {
	ds := &Dataset{
		Name:    name,
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		ds.index[c.Name] = i
		if c.Len() > ds.rowCount {
			ds.rowCount = c.Len()
		}
	}
	return ds
}

func (d *Dataset) NumRows() int {
	return d.rowCount
}

func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.Columns[i], true
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *Dataset) NumericColumns() []*Column {
	var cols []*Column
	for i := range d.Columns {
		if d.Columns[i].Kind == KindNumeric {
			cols = append(cols, &d.Columns[i])
		}
	}
	return cols
}

// Sample returns up to n leading rows as raw cell text.
func (d *Dataset) Sample(n int) [][]string {
	if n > d.rowCount {
		n = d.rowCount
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.Columns))
		for c := range d.Columns {
			if r < d.Columns[c].Len() {
				row[c] = d.Columns[c].Raw[r]
			}
		}
		rows[r] = row
	}
	return rows
}
