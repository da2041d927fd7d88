package render

import (
	"math"
	"sort"
	"strconv"
	"time"

	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/util"
)

// groupKey is one distinct value of a grouping column. label identifies the key; num and
// at carry the sortable value for numeric and datetime columns.
type groupKey struct {
	label string
	num   float64
	at    time.Time
}

func keyAt(col *model.Column, row int) (groupKey, bool) {
	if col.IsMissing(row) {
		return groupKey{}, false
	}
	switch col.Kind {
	case model.KindNumeric:
		v := col.Numbers[row]
		return groupKey{label: strconv.FormatFloat(v, 'f', -1, 64), num: v}, true
	case model.KindDatetime:
		t := col.Times[row]
		return groupKey{label: util.DateLabel(t), num: float64(t.Unix()), at: t}, true
	default:
		return groupKey{label: col.Raw[row]}, true
	}
}

// groups maps every row of col to the index of its key; rows with a missing key get -1.
// Keys are ordered numerically, chronologically or lexically by column kind.
type groups struct {
	keys   []groupKey
	rowKey []int
}

func groupBy(col *model.Column) groups {
	index := make(map[string]int)
	var keys []groupKey
	for row := 0; row < col.Len(); row++ {
		k, ok := keyAt(col, row)
		if !ok {
			continue
		}
		if _, seen := index[k.label]; !seen {
			index[k.label] = len(keys)
			keys = append(keys, k)
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		switch col.Kind {
		case model.KindNumeric:
			return keys[i].num < keys[j].num
		case model.KindDatetime:
			return keys[i].at.Before(keys[j].at)
		default:
			return keys[i].label < keys[j].label
		}
	})
	for i, k := range keys {
		index[k.label] = i
	}

	rowKey := make([]int, col.Len())
	for row := range rowKey {
		rowKey[row] = -1
		if k, ok := keyAt(col, row); ok {
			rowKey[row] = index[k.label]
		}
	}
	return groups{keys: keys, rowKey: rowKey}
}

func (g groups) labels() []string {
	labels := make([]string, len(g.keys))
	for i, k := range g.keys {
		labels[i] = k.label
	}
	return labels
}

// valueSource is the resolved value axis of a bar, line, pie or stacked bar chart.
// column is nil when rows are counted.
type valueSource struct {
	aggregation model.Aggregation
	column      *model.Column
}

// resolveValue applies the aggregation rules: count when asked, when y_col is absent or
// when y_col is not numeric; an explicit sum over a non-numeric column is an error.
func resolveValue(ds *model.Dataset, spec model.ChartSpec) (valueSource, error) {
	count := valueSource{aggregation: model.AggregationCount}
	if spec.Aggregation == model.AggregationCount || spec.YCol == nil {
		return count, nil
	}
	col, _ := ds.Column(*spec.YCol)
	if col.Kind != model.KindNumeric {
		if spec.Aggregation == model.AggregationSum {
			return valueSource{}, &charterr.IncompatibleColumnTypeError{
				Column:   col.Name,
				Expected: string(model.KindNumeric),
				Actual:   string(col.Kind),
			}
		}
		return count, nil
	}
	return valueSource{aggregation: model.AggregationSum, column: col}, nil
}

// contribution is what row adds to its bucket.
func (v valueSource) contribution(row int) float64 {
	if v.column == nil {
		return 1
	}
	if v.column.IsMissing(row) {
		return 0
	}
	return v.column.Numbers[row]
}

func (v valueSource) label() string {
	if v.column == nil {
		return "count"
	}
	return v.column.Name
}

func (v valueSource) title(by string) string {
	if v.column == nil {
		return "Count by " + by
	}
	return "Sum of " + v.column.Name + " by " + by
}

// checkFinite rejects sums that overflowed the float64 range.
func (v valueSource) checkFinite(totals []float64) error {
	for _, t := range totals {
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return &charterr.IncompatibleColumnTypeError{
				Column:   v.label(),
				Expected: "values whose sums fit in a float64",
				Actual:   "numeric with sums out of range",
			}
		}
	}
	return nil
}

// aggregate sums the value source per key of g.
func aggregate(g groups, v valueSource) []float64 {
	totals := make([]float64, len(g.keys))
	for row, k := range g.rowKey {
		if k < 0 {
			continue
		}
		totals[k] += v.contribution(row)
	}
	return totals
}

// pivot sums the value source per (series key, category key); cells without rows are 0.
func pivot(categories, series groups, v valueSource) [][]float64 {
	cells := make([][]float64, len(series.keys))
	for i := range cells {
		cells[i] = make([]float64, len(categories.keys))
	}
	for row, c := range categories.rowKey {
		s := series.rowKey[row]
		if c < 0 || s < 0 {
			continue
		}
		cells[s][c] += v.contribution(row)
	}
	return cells
}

// groupingColumn returns the column named by group_by, falling back to x_col.
func groupingColumn(ds *model.Dataset, spec model.ChartSpec) (*model.Column, bool) {
	name := spec.GroupBy
	if name == nil {
		name = spec.XCol
	}
	if name == nil {
		return nil, false
	}
	return ds.Column(*name)
}

// quantile uses linear interpolation between closest ranks over sorted values.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
