package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"inventory-chart-backend/internal/model"
)

// Encoder draws a figure as an image.
type Encoder interface {
	EncodePNG(fig *model.Figure) ([]byte, error)
}

type pngEncoder struct {
	width  vg.Length
	height vg.Length
}

// NewPNGEncoder returns an encoder producing images of the given size in inches.
func NewPNGEncoder(widthIn, heightIn float64) Encoder {
	if widthIn <= 0 {
		widthIn = 10
	}
	if heightIn <= 0 {
		heightIn = 6
	}
	return &pngEncoder{width: vg.Length(widthIn) * vg.Inch, height: vg.Length(heightIn) * vg.Inch}
}

func (e *pngEncoder) EncodePNG(fig *model.Figure) ([]byte, error) {
	if fig.NoData {
		return e.writePlot(emptyPlot(fig.Title))
	}
	if fig.ChartType == model.ChartPie {
		return e.drawPie(fig)
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel

	var err error
	switch fig.ChartType {
	case model.ChartBar, model.ChartStackedBar, model.ChartHistogram:
		err = e.addBars(p, fig)
	case model.ChartLine:
		err = addLine(p, fig)
	case model.ChartScatter:
		err = addScatter(p, fig)
	case model.ChartBox:
		err = e.addBoxes(p, fig)
	case model.ChartHeatmap:
		addHeatmap(p, fig)
	default:
		err = fmt.Errorf("no drawing for chart type %q", fig.ChartType)
	}
	if err != nil {
		return nil, err
	}
	return e.writePlot(p)
}

func (e *pngEncoder) writePlot(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(e.width, e.height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write plot: %w", err)
	}
	return buf.Bytes(), nil
}

func emptyPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	return p
}

// barWidth spreads n bars over the plot width.
func (e *pngEncoder) barWidth(n int) vg.Length {
	w := (e.width - 2*vg.Inch) / vg.Length(2*n)
	if w > vg.Points(40) {
		w = vg.Points(40)
	}
	if w < vg.Points(1) {
		w = vg.Points(1)
	}
	return w
}

func nominalX(p *plot.Plot, labels []string) {
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

// addBars draws every series as a bar chart stacked on the previous one.
func (e *pngEncoder) addBars(p *plot.Plot, fig *model.Figure) error {
	width := e.barWidth(len(fig.Categories))
	var below *plotter.BarChart
	for i, s := range fig.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("failed to create bar chart: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		if len(fig.Series) > 1 {
			p.Legend.Add(s.Name, bars)
		}
		below = bars
	}
	p.Legend.Top = true
	nominalX(p, fig.Categories)
	return nil
}

func addLine(p *plot.Plot, fig *model.Figure) error {
	values := fig.Series[0].Values
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		if fig.XValues != nil {
			xys[i].X = fig.XValues[i]
		}
		xys[i].Y = v
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to create line: %w", err)
	}
	line.Color = plotutil.Color(0)
	points.Color = plotutil.Color(0)
	p.Add(line, points, plotter.NewGrid())

	switch {
	case fig.XIsTime:
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	case fig.XValues == nil:
		nominalX(p, fig.Categories)
	}
	return nil
}

func addScatter(p *plot.Plot, fig *model.Figure) error {
	var order []string
	byGroup := make(map[string]plotter.XYs)
	for _, pt := range fig.Points {
		if _, ok := byGroup[pt.Group]; !ok {
			order = append(order, pt.Group)
		}
		byGroup[pt.Group] = append(byGroup[pt.Group], plotter.XY{X: pt.X, Y: pt.Y})
	}

	for i, group := range order {
		scatter, err := plotter.NewScatter(byGroup[group])
		if err != nil {
			return fmt.Errorf("failed to create scatter: %w", err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(scatter)
		if group != "" {
			p.Legend.Add(group, scatter)
		}
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if fig.XIsTime {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
	if fig.YIsTime {
		p.Y.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
	return nil
}

func (e *pngEncoder) addBoxes(p *plot.Plot, fig *model.Figure) error {
	width := e.barWidth(len(fig.Boxes))
	labels := make([]string, len(fig.Boxes))
	for i, b := range fig.Boxes {
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(b.Values))
		if err != nil {
			return fmt.Errorf("failed to create box plot: %w", err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
		labels[i] = b.Label
	}
	nominalX(p, labels)
	return nil
}

// correlationGrid adapts a correlation matrix to plotter.GridXYZ. Undefined cells are NaN
// and left unpainted.
type correlationGrid struct {
	m *model.Matrix
}

func (g correlationGrid) Dims() (c, r int) { return len(g.m.Labels), len(g.m.Labels) }
func (g correlationGrid) X(c int) float64  { return float64(c) }
func (g correlationGrid) Y(r int) float64  { return float64(r) }

func (g correlationGrid) Z(c, r int) float64 {
	v := g.m.Values[r][c]
	if v == nil {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, *v))
}

func addHeatmap(p *plot.Plot, fig *model.Figure) {
	heat := plotter.NewHeatMap(correlationGrid{m: fig.Matrix}, palette.Heat(12, 1))
	heat.Min = -1
	heat.Max = 1
	p.Add(heat)
	nominalX(p, fig.Matrix.Labels)
	p.NominalY(fig.Matrix.Labels...)
}

// drawPie renders slices with go-chart; non-positive slices cannot be drawn and are
// left out.
func (e *pngEncoder) drawPie(fig *model.Figure) ([]byte, error) {
	var values []chart.Value
	for i, label := range fig.Categories {
		v := fig.Series[0].Values[i]
		if v > 0 {
			values = append(values, chart.Value{Label: label, Value: v})
		}
	}
	if len(values) == 0 {
		return e.writePlot(emptyPlot(fig.Title))
	}

	pie := chart.PieChart{
		Title:  fig.Title,
		Width:  int(e.width),
		Height: int(e.height),
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
