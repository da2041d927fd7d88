package model

type ChartType string

const (
	ChartBar        ChartType = "bar"
	ChartPie        ChartType = "pie"
	ChartLine       ChartType = "line"
	ChartScatter    ChartType = "scatter"
	ChartHistogram  ChartType = "histogram"
	ChartBox        ChartType = "box"
	ChartHeatmap    ChartType = "heatmap"
	ChartStackedBar ChartType = "stacked_bar"
)

// SupportedChartTypes lists every chart type in a stable order.
var SupportedChartTypes = []ChartType{
	ChartBar, ChartPie, ChartLine, ChartScatter,
	ChartHistogram, ChartBox, ChartHeatmap, ChartStackedBar,
}

func (t ChartType) Valid() bool {
	for _, s := range SupportedChartTypes {
		if s == t {
			return true
		}
	}
	return false
}

func SupportedChartTypeNames() []string {
	names := make([]string, len(SupportedChartTypes))
	for i, t := range SupportedChartTypes {
		names[i] = string(t)
	}
	return names
}

type Aggregation string

const (
	AggregationAuto  Aggregation = ""
	AggregationSum   Aggregation = "sum"
	AggregationCount Aggregation = "count"
)

const (
	DefaultHistogramBins = 20
	MaxHistogramBins     = 1000
)

// ChartSpec is the typed form of an interpreter reply. Column references are nil when
// the interpreter left them out.
type ChartSpec struct {
	ChartType       ChartType   `json:"chart_type"`
	XCol            *string     `json:"x_col"`
	YCol            *string     `json:"y_col"`
	GroupBy         *string     `json:"group_by"`
	Aggregation     Aggregation `json:"aggregation,omitempty"`
	Bins            int         `json:"bins,omitempty"`
	AdditionalNotes string      `json:"additional_notes,omitempty"`
	Insight         string      `json:"insight,omitempty"`
}

// ColumnRefs returns the non-nil column references as (field, column) pairs in
// x_col, y_col, group_by order.
func (s ChartSpec) ColumnRefs() [][2]string {
	var refs [][2]string
	if s.XCol != nil {
		refs = append(refs, [2]string{"x_col", *s.XCol})
	}
	if s.YCol != nil {
		refs = append(refs, [2]string{"y_col", *s.YCol})
	}
	if s.GroupBy != nil {
		refs = append(refs, [2]string{"group_by", *s.GroupBy})
	}
	return refs
}

// BinCount is the histogram bin count, falling back to the default when Bins is unset or
// out of range.
func (s ChartSpec) BinCount() int {
	if s.Bins > 0 && s.Bins <= MaxHistogramBins {
		return s.Bins
	}
	return DefaultHistogramBins
}
