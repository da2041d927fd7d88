package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/artifact"
	"inventory-chart-backend/internal/dataset"
	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/kafka"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/parser"
	"inventory-chart-backend/internal/render"
	"inventory-chart-backend/internal/store"
)

type fakeInterpreter struct {
	reply    string
	err      error
	question string
	columns  []dto.DatasetColumn
}

func (f *fakeInterpreter) Interpret(_ context.Context, columns []dto.DatasetColumn, _ [][]string, question string) (string, error) {
	f.question = question
	f.columns = columns
	return f.reply, f.err
}

type recordingPublisher struct {
	kafka.NoopPublisher
	events []model.ChartEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ChartEvent) error {
	p.events = append(p.events, event)
	return nil
}

type failingArtifacts struct{}

func (failingArtifacts) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

type chartFixture struct {
	svc         ChartService
	interpreter *fakeInterpreter
	events      *recordingPublisher
	datasetID   string
}

func newChartFixture(t *testing.T, artifacts artifact.Store) *chartFixture {
	t.Helper()
	cfg := &config.Config{Dataset: config.DatasetConfig{MaxEntries: 4, TTL: time.Hour, SampleRows: 2}}
	datasets, err := store.NewInMemoryDatasetStore(cfg)
	require.NoError(t, err)

	ds := dataset.FromRecords("stock.csv",
		[]string{"sku", "warehouse", "quantity"},
		[][]string{
			{"A-1", "north", "10"},
			{"A-2", "north", "5"},
			{"B-1", "south", "7"},
		})
	entry, err := datasets.Put(context.Background(), ds)
	require.NoError(t, err)

	f := &chartFixture{interpreter: &fakeInterpreter{}, events: &recordingPublisher{}, datasetID: entry.ID}
	f.svc = NewChartService(cfg, datasets, f.interpreter, parser.NewSpecParser(),
		render.NewRenderer(), render.NewPNGEncoder(4, 3), artifacts, f.events)
	return f
}

func TestChartService_ProcessQuery_Chart(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	f.interpreter.reply = "```json\n{\"chart_type\": \"bar\", \"x_col\": \"warehouse\", \"y_col\": \"quantity\", \"insight\": \"North holds most stock\"}\n```"

	resp, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: f.datasetID, Query: "stock per warehouse"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeChart, resp.ResultType)
	assert.Equal(t, "stock per warehouse", resp.OriginalQuery)
	assert.Equal(t, "North holds most stock", resp.Insight)
	assert.Equal(t, "image/png", resp.ImageMIMEType)
	assert.Nil(t, resp.ErrorMessage)

	img, err := base64.StdEncoding.DecodeString(resp.Image)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(img), "\x89PNG"))

	require.NotNil(t, resp.Figure)
	assert.Equal(t, []string{"north", "south"}, resp.Figure.Categories)
	assert.Equal(t, []float64{15, 7}, resp.Figure.Series[0].Values)

	assert.Equal(t, "stock per warehouse", f.interpreter.question)
	assert.Len(t, f.interpreter.columns, 3)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, model.ChartBar, f.events.events[0].ChartType)
	assert.Equal(t, ResultTypeChart, f.events.events[0].ResultType)
}

func TestChartService_ProcessQuery_ParseError(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	f.interpreter.reply = "I think a bar chart would be best."

	resp, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: f.datasetID, Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeError, resp.ResultType)
	assert.Equal(t, "parse_error", resp.ErrorKind)
	assert.Equal(t, f.interpreter.reply, resp.RawResponse)
	require.NotNil(t, resp.ErrorMessage)
	assert.Empty(t, resp.Image)
}

func TestChartService_ProcessQuery_RenderError(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	f.interpreter.reply = `{"chart_type": "bar", "x_col": "nonexistent_column", "y_col": "quantity"}`

	resp, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: f.datasetID, Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, "unknown_column", resp.ErrorKind)
	require.NotNil(t, resp.Spec)
	assert.Equal(t, model.ChartBar, resp.Spec.ChartType)
	assert.Contains(t, *resp.ErrorMessage, "nonexistent_column")
	assert.Equal(t, "unknown_column", f.events.events[0].ErrorKind)
}

func TestChartService_ProcessQuery_Declined(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	f.interpreter.reply = `{"error": "no price column"}`

	resp, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: f.datasetID, Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "interpreter_declined", resp.ErrorKind)
}

func TestChartService_ProcessQuery_InterpreterFailure(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	f.interpreter.err = errors.New("deadline exceeded")

	resp, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: f.datasetID, Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, ErrorKindInterpreterUnavailable, resp.ErrorKind)
	assert.Equal(t, "Failed to interpret query with LLM", *resp.ErrorMessage)
}

func TestChartService_ProcessQuery_UnknownDataset(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})

	_, err := f.svc.ProcessQuery(context.Background(), dto.ChartQueryRequest{DatasetID: "missing", Query: "q"})
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)
	assert.Empty(t, f.events.events)
}

func TestChartService_RenderSpec_ArtifactFailureIsNotFatal(t *testing.T) {
	f := newChartFixture(t, failingArtifacts{})

	resp, err := f.svc.RenderSpec(context.Background(), dto.ChartRenderRequest{
		DatasetID: f.datasetID,
		Spec:      `{'chart_type': 'pie', 'group_by': 'warehouse', 'y_col': 'quantity'}`,
	})
	require.NoError(t, err)
	assert.Equal(t, ResultTypeChart, resp.ResultType)
	assert.Empty(t, resp.ArtifactLocation)
	assert.NotEmpty(t, resp.Image)
}

func TestChartService_RenderSpec_DiskArtifact(t *testing.T) {
	dir := t.TempDir()
	f := newChartFixture(t, artifact.NewDiskStore(dir))

	resp, err := f.svc.RenderSpec(context.Background(), dto.ChartRenderRequest{
		DatasetID: f.datasetID,
		Spec:      `{"chart_type": "histogram", "x_col": "quantity", "bins": 3}`,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ArtifactLocation, dir))
	assert.Equal(t, []float64{1, 1, 1}, resp.Figure.Series[0].Values)
}

func TestChartService_SupportedChartTypes(t *testing.T) {
	f := newChartFixture(t, artifact.NoopStore{})
	assert.Equal(t, []string{"bar", "pie", "line", "scatter", "histogram", "box", "heatmap", "stacked_bar"}, f.svc.SupportedChartTypes())
}

func TestBuildChartPrompt(t *testing.T) {
	prompt := BuildChartPrompt(
		[]dto.DatasetColumn{{Name: "sku", Kind: "categorical"}, {Name: "quantity", Kind: "numeric"}},
		[][]string{{"A-1", "10"}},
		"stock by sku",
	)
	assert.Contains(t, prompt, "- sku (categorical)")
	assert.Contains(t, prompt, "A-1 | 10")
	assert.Contains(t, prompt, `"stacked_bar"`)
	assert.Contains(t, prompt, `User Query: "stock by sku"`)
}

func TestGeminiInterpreter_NotConfigured(t *testing.T) {
	interpreter, err := NewGeminiInterpreter(&config.Config{})
	require.NoError(t, err)

	_, err = interpreter.Interpret(context.Background(), nil, nil, "q")
	assert.ErrorIs(t, err, ErrInterpreterNotConfigured)
}
