package render

import (
	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/model"
)

// Renderer turns a dataset and a chart spec into a figure. Implementations hold no
// mutable state and are safe for concurrent use.
type Renderer interface {
	Render(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error)
}

type buildFunc func(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error)

var builders = map[model.ChartType]buildFunc{
	model.ChartBar:        buildBar,
	model.ChartPie:        buildPie,
	model.ChartLine:       buildLine,
	model.ChartScatter:    buildScatter,
	model.ChartHistogram:  buildHistogram,
	model.ChartBox:        buildBox,
	model.ChartHeatmap:    buildHeatmap,
	model.ChartStackedBar: buildStackedBar,
}

type renderer struct{}

func NewRenderer() Renderer {
	return &renderer{}
}

func (r *renderer) Render(ds *model.Dataset, spec model.ChartSpec) (*model.Figure, error) {
	build, ok := builders[spec.ChartType]
	if !ok {
		return nil, &charterr.UnsupportedChartTypeError{
			Value:     string(spec.ChartType),
			Supported: model.SupportedChartTypeNames(),
		}
	}
	if err := validateColumns(ds, spec); err != nil {
		return nil, err
	}
	// Heatmap checks its numeric columns first; that check does not depend on rows.
	if ds.NumRows() == 0 && spec.ChartType != model.ChartHeatmap {
		return noData(spec.ChartType, "No data"), nil
	}
	return build(ds, spec)
}

// validateColumns reports every referenced column missing from ds, once each, in
// x_col, y_col, group_by order.
func validateColumns(ds *model.Dataset, spec model.ChartSpec) error {
	var unknown []string
	seen := make(map[string]bool)
	for _, ref := range spec.ColumnRefs() {
		name := ref[1]
		if ds.HasColumn(name) || seen[name] {
			continue
		}
		seen[name] = true
		unknown = append(unknown, name)
	}
	if len(unknown) == 0 {
		return nil
	}
	return &charterr.UnknownColumnError{Columns: unknown, Available: ds.ColumnNames()}
}

func noData(chartType model.ChartType, title string) *model.Figure {
	return &model.Figure{ChartType: chartType, Title: title, NoData: true}
}
