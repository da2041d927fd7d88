package model

// Figure is the renderer's chart artifact. Only the fields that apply to ChartType are
// set; the PNG encoding is produced from it separately.
type Figure struct {
	ChartType   ChartType    `json:"chartType"`
	Title       string       `json:"title"`
	XLabel      string       `json:"xLabel,omitempty"`
	YLabel      string       `json:"yLabel,omitempty"`
	Aggregation Aggregation  `json:"aggregation,omitempty"`
	NoData      bool         `json:"noData,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	XValues     []float64    `json:"xValues,omitempty"` // line: numeric or unix-second keys
	XIsTime     bool         `json:"xIsTime,omitempty"`
	YIsTime     bool         `json:"yIsTime,omitempty"`
	Series      []Series     `json:"series,omitempty"`
	Points      []Point      `json:"points,omitempty"`
	BinEdges    []float64    `json:"binEdges,omitempty"`
	Boxes       []BoxSummary `json:"boxes,omitempty"`
	Matrix      *Matrix      `json:"matrix,omitempty"`
}

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group,omitempty"`
}

type BoxSummary struct {
	Label  string    `json:"label"`
	Count  int       `json:"count"`
	Min    float64   `json:"min"`
	Q1     float64   `json:"q1"`
	Median float64   `json:"median"`
	Q3     float64   `json:"q3"`
	Max    float64   `json:"max"`
	Values []float64 `json:"-"`
}

// Matrix is a square correlation matrix; nil cells are undefined (constant column or
// too few paired rows).
type Matrix struct {
	Labels []string     `json:"labels"`
	Values [][]*float64 `json:"values"`
}

// SeriesValue looks up the value of a single-series figure by category label.
func (f *Figure) SeriesValue(series int, category string) (float64, bool) {
	if series >= len(f.Series) {
		return 0, false
	}
	for i, c := range f.Categories {
		if c == category && i < len(f.Series[series].Values) {
			return f.Series[series].Values[i], true
		}
	}
	return 0, false
}
