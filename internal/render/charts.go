package render

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/model"
)

func buildBar(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	return buildCategorical(ds, spec, "x_col")
}

func buildPie(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	return buildCategorical(ds, spec, "group_by")
}

// buildCategorical draws one aggregated value per key of group_by, or of x_col when no
// group_by is given. missingField names the field reported when neither is set.
func buildCategorical(ds *model.Dataset, spec model.ChartSpec, missingField string) (*model.Figure, error) {
	keyCol, ok := groupingColumn(ds, spec)
	if !ok {
		return nil, &charterr.MissingGroupingError{ChartType: string(spec.ChartType), Field: missingField}
	}
	value, err := resolveValue(ds, spec)
	if err != nil {
		return nil, err
	}

	g := groupBy(keyCol)
	title := value.title(keyCol.Name)
	if len(g.keys) == 0 {
		return noData(spec.ChartType, title), nil
	}
	totals := aggregate(g, value)
	if err := value.checkFinite(totals); err != nil {
		return nil, err
	}
	return &model.Figure{
		ChartType:   spec.ChartType,
		Title:       title,
		XLabel:      keyCol.Name,
		YLabel:      value.label(),
		Aggregation: value.aggregation,
		Categories:  g.labels(),
		Series:      []model.Series{{Name: value.label(), Values: totals}},
	}, nil
}

func buildLine(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	fig, err := buildCategorical(ds, spec, "x_col")
	if err != nil || fig.NoData {
		return fig, err
	}
	keyCol, _ := groupingColumn(ds, spec)
	if keyCol.Kind == model.KindNumeric || keyCol.Kind == model.KindDatetime {
		g := groupBy(keyCol)
		fig.XValues = make([]float64, len(g.keys))
		for i, k := range g.keys {
			fig.XValues[i] = k.num
		}
		fig.XIsTime = keyCol.Kind == model.KindDatetime
	}
	return fig, nil
}

func buildStackedBar(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	if spec.XCol == nil {
		return nil, &charterr.MissingGroupingError{ChartType: string(spec.ChartType), Field: "x_col"}
	}
	if spec.GroupBy == nil {
		return nil, &charterr.MissingGroupingError{ChartType: string(spec.ChartType), Field: "group_by"}
	}
	value, err := resolveValue(ds, spec)
	if err != nil {
		return nil, err
	}

	xCol, _ := ds.Column(*spec.XCol)
	groupCol, _ := ds.Column(*spec.GroupBy)
	categories := groupBy(xCol)
	series := groupBy(groupCol)
	title := value.title(xCol.Name + " and " + groupCol.Name)
	if len(categories.keys) == 0 || len(series.keys) == 0 {
		return noData(spec.ChartType, title), nil
	}

	cells := pivot(categories, series, value)
	for _, row := range cells {
		if err := value.checkFinite(row); err != nil {
			return nil, err
		}
	}
	fig := &model.Figure{
		ChartType:   spec.ChartType,
		Title:       title,
		XLabel:      xCol.Name,
		YLabel:      value.label(),
		Aggregation: value.aggregation,
		Categories:  categories.labels(),
	}
	for i, k := range series.keys {
		fig.Series = append(fig.Series, model.Series{Name: k.label, Values: cells[i]})
	}
	return fig, nil
}

func buildScatter(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	if spec.XCol == nil {
		return nil, &charterr.MissingFieldError{ChartType: string(spec.ChartType), Field: "x_col"}
	}
	if spec.YCol == nil {
		return nil, &charterr.MissingFieldError{ChartType: string(spec.ChartType), Field: "y_col"}
	}
	xCol, _ := ds.Column(*spec.XCol)
	yCol, _ := ds.Column(*spec.YCol)
	for _, col := range []*model.Column{xCol, yCol} {
		if col.Kind == model.KindCategorical {
			return nil, &charterr.IncompatibleColumnTypeError{
				Column:   col.Name,
				Expected: "numeric or datetime",
				Actual:   string(col.Kind),
			}
		}
	}
	var groupCol *model.Column
	if spec.GroupBy != nil {
		groupCol, _ = ds.Column(*spec.GroupBy)
	}

	title := fmt.Sprintf("%s vs %s", yCol.Name, xCol.Name)
	fig := &model.Figure{
		ChartType: spec.ChartType,
		Title:     title,
		XLabel:    xCol.Name,
		YLabel:    yCol.Name,
		XIsTime:   xCol.Kind == model.KindDatetime,
		YIsTime:   yCol.Kind == model.KindDatetime,
	}
	for row := 0; row < ds.NumRows(); row++ {
		x, okX := axisValue(xCol, row)
		y, okY := axisValue(yCol, row)
		if !okX || !okY {
			continue
		}
		p := model.Point{X: x, Y: y}
		if groupCol != nil {
			if k, ok := keyAt(groupCol, row); ok {
				p.Group = k.label
			}
		}
		fig.Points = append(fig.Points, p)
	}
	if len(fig.Points) == 0 {
		return noData(spec.ChartType, title), nil
	}
	return fig, nil
}

// axisValue reads a numeric cell, or a datetime cell as unix seconds.
func axisValue(col *model.Column, row int) (float64, bool) {
	if col.IsMissing(row) {
		return 0, false
	}
	if col.Kind == model.KindDatetime {
		return float64(col.Times[row].Unix()), true
	}
	return col.Numbers[row], true
}

// distributionColumn picks the first numeric column among x_col and y_col.
func distributionColumn(ds *model.Dataset, spec model.ChartSpec) (*model.Column, error) {
	var first *model.Column
	for _, name := range []*string{spec.XCol, spec.YCol} {
		if name == nil {
			continue
		}
		col, _ := ds.Column(*name)
		if col.Kind == model.KindNumeric {
			return col, nil
		}
		if first == nil {
			first = col
		}
	}
	if first == nil {
		return nil, &charterr.MissingFieldError{ChartType: string(spec.ChartType), Field: "x_col or y_col"}
	}
	return nil, &charterr.IncompatibleColumnTypeError{
		Column:   first.Name,
		Expected: string(model.KindNumeric),
		Actual:   string(first.Kind),
	}
}

// valuesByGroup collects the non-missing values of col, split by the keys of
// group_by when it is set. The returned labels and value slices are parallel.
func valuesByGroup(ds *model.Dataset, spec model.ChartSpec, col *model.Column) ([]string, [][]float64) {
	if spec.GroupBy == nil {
		var values []float64
		for row := 0; row < col.Len(); row++ {
			if !col.IsMissing(row) {
				values = append(values, col.Numbers[row])
			}
		}
		return []string{col.Name}, [][]float64{values}
	}

	groupCol, _ := ds.Column(*spec.GroupBy)
	g := groupBy(groupCol)
	values := make([][]float64, len(g.keys))
	for row, k := range g.rowKey {
		if k < 0 || col.IsMissing(row) {
			continue
		}
		values[k] = append(values[k], col.Numbers[row])
	}
	return g.labels(), values
}

func buildHistogram(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	col, err := distributionColumn(ds, spec)
	if err != nil {
		return nil, err
	}
	labels, sets := valuesByGroup(ds, spec, col)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, values := range sets {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	title := "Distribution of " + col.Name
	if math.IsInf(lo, 1) {
		return noData(spec.ChartType, title), nil
	}
	if hi/2-lo/2 == 0 {
		lo, hi = widen(lo)
	}

	// Bin arithmetic runs on halved values so that hi-lo cannot overflow.
	bins := spec.BinCount()
	halfWidth := (hi/2 - lo/2) / float64(bins)
	edges := make([]float64, bins+1)
	for i := 0; i < bins; i++ {
		edges[i] = math.Min(2*(lo/2+float64(i)*halfWidth), hi)
	}
	edges[bins] = hi

	fig := &model.Figure{
		ChartType:   spec.ChartType,
		Title:       title,
		XLabel:      col.Name,
		YLabel:      "count",
		Aggregation: model.AggregationCount,
		BinEdges:    edges,
	}
	for i := 0; i < bins; i++ {
		fig.Categories = append(fig.Categories, fmt.Sprintf("%.4g-%.4g", edges[i], edges[i+1]))
	}
	for i, values := range sets {
		counts := make([]float64, bins)
		for _, v := range values {
			counts[binIndex((v/2-lo/2)/halfWidth, bins)]++
		}
		fig.Series = append(fig.Series, model.Series{Name: labels[i], Values: counts})
	}
	return fig, nil
}

// widen turns the single value v into a range wide enough to bin, staying finite.
func widen(v float64) (lo, hi float64) {
	pad := math.Max(0.5, math.Abs(v)*1e-9)
	switch {
	case math.IsInf(v+pad, 1):
		return v - 2*pad, v
	case math.IsInf(v-pad, -1):
		return v, v + 2*pad
	default:
		return v - pad, v + pad
	}
}

func binIndex(pos float64, bins int) int {
	switch {
	case math.IsNaN(pos) || pos < 0:
		return 0
	case pos >= float64(bins):
		return bins - 1
	default:
		return int(pos)
	}
}

func buildBox(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	col, err := distributionColumn(ds, spec)
	if err != nil {
		return nil, err
	}
	labels, sets := valuesByGroup(ds, spec, col)

	title := "Distribution of " + col.Name
	fig := &model.Figure{ChartType: spec.ChartType, Title: title, YLabel: col.Name}
	if spec.GroupBy != nil {
		fig.Title += " by " + *spec.GroupBy
		fig.XLabel = *spec.GroupBy
	}
	for i, values := range sets {
		if len(values) == 0 {
			continue
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		fig.Boxes = append(fig.Boxes, model.BoxSummary{
			Label:  labels[i],
			Count:  len(sorted),
			Min:    sorted[0],
			Q1:     quantile(sorted, 0.25),
			Median: quantile(sorted, 0.5),
			Q3:     quantile(sorted, 0.75),
			Max:    sorted[len(sorted)-1],
			Values: sorted,
		})
	}
	if len(fig.Boxes) == 0 {
		return noData(spec.ChartType, fig.Title), nil
	}
	return fig, nil
}

// buildHeatmap correlates every pair of numeric columns over the rows where both are
// present. Pairs with fewer than two such rows or a constant side are left undefined.
func buildHeatmap(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	cols := ds.NumericColumns()
	if len(cols) < 2 {
		return nil, &charterr.InsufficientNumericColumnsError{Found: len(cols), Required: 2}
	}
	if ds.NumRows() == 0 {
		return noData(spec.ChartType, "No data"), nil
	}

	m := &model.Matrix{Values: make([][]*float64, len(cols))}
	for i, a := range cols {
		m.Labels = append(m.Labels, a.Name)
		m.Values[i] = make([]*float64, len(cols))
		for j, b := range cols {
			if j < i {
				m.Values[i][j] = m.Values[j][i]
				continue
			}
			m.Values[i][j] = correlation(a, b)
		}
	}
	return &model.Figure{
		ChartType: spec.ChartType,
		Title:     "Correlation of numeric columns",
		Matrix:    m,
	}, nil
}

func correlation(a, b *model.Column) *float64 {
	var xs, ys []float64
	for row := 0; row < a.Len() && row < b.Len(); row++ {
		if a.IsMissing(row) || b.IsMissing(row) {
			continue
		}
		xs = append(xs, a.Numbers[row])
		ys = append(ys, b.Numbers[row])
	}
	if len(xs) < 2 {
		return nil
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}
