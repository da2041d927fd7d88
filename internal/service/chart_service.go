package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/artifact"
	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/kafka"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/parser"
	"inventory-chart-backend/internal/render"
	"inventory-chart-backend/internal/store"
)

const (
	ResultTypeChart  = "chart"
	ResultTypeNoData = "no_data"
	ResultTypeError  = "error"

	// ErrorKindInterpreterUnavailable reports a failed interpreter call, as opposed to an
	// interpreter reply that could not be used.
	ErrorKindInterpreterUnavailable = "interpreter_unavailable"
)

type ChartService interface {
	ProcessQuery(ctx context.Context, req dto.ChartQueryRequest) (*dto.ChartResponse, error)
	RenderSpec(ctx context.Context, req dto.ChartRenderRequest) (*dto.ChartResponse, error)
	SupportedChartTypes() []string
}

type chartService struct {
	datasets    store.DatasetStore
	interpreter Interpreter
	parser      parser.SpecParser
	renderer    render.Renderer
	encoder     render.Encoder
	artifacts   artifact.Store
	events      kafka.ChartEventPublisher
	sampleRows  int
}

func NewChartService(
	cfg *config.Config,
	datasets store.DatasetStore,
	interpreter Interpreter,
	specParser parser.SpecParser,
	renderer render.Renderer,
	encoder render.Encoder,
	artifacts artifact.Store,
	events kafka.ChartEventPublisher,
) ChartService {
	return &chartService{
		datasets:    datasets,
		interpreter: interpreter,
		parser:      specParser,
		renderer:    renderer,
		encoder:     encoder,
		artifacts:   artifacts,
		events:      events,
		sampleRows:  cfg.Dataset.SampleRows,
	}
}

func (s *chartService) ProcessQuery(ctx context.Context, req dto.ChartQueryRequest) (*dto.ChartResponse, error) {
	start := time.Now()
	log.Info().Str("dataset_id", req.DatasetID).Str("query", req.Query).Msg("Processing chart query")

	entry, err := s.datasets.Get(ctx, req.DatasetID)
	if err != nil {
		return nil, err
	}

	ds := entry.Dataset
	raw, err := s.interpreter.Interpret(ctx, describeColumns(ds), ds.Sample(s.sampleRows), req.Query)
	if err != nil {
		log.Error().Err(err).Str("dataset_id", req.DatasetID).Msg("Interpreter call failed")
		message := "Failed to interpret query with LLM"
		if errors.Is(err, ErrInterpreterNotConfigured) {
			message = err.Error()
		}
		resp := createErrorResponse(req.DatasetID, req.Query, ErrorKindInterpreterUnavailable, message)
		s.publishEvent(ctx, resp, start)
		return resp, nil
	}

	resp, err := s.renderRaw(ctx, entry, raw)
	if err != nil {
		return nil, err
	}
	resp.OriginalQuery = req.Query
	s.publishEvent(ctx, resp, start)
	return resp, nil
}

func (s *chartService) RenderSpec(ctx context.Context, req dto.ChartRenderRequest) (*dto.ChartResponse, error) {
	start := time.Now()
	entry, err := s.datasets.Get(ctx, req.DatasetID)
	if err != nil {
		return nil, err
	}
	resp, err := s.renderRaw(ctx, entry, req.Spec)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, resp, start)
	return resp, nil
}

func (s *chartService) SupportedChartTypes() []string {
	return model.SupportedChartTypeNames()
}

// renderRaw runs parse, render and draw for one interpreter reply. Classified failures
// become error responses; only drawing failures are returned as errors.
func (s *chartService) renderRaw(ctx context.Context, entry *store.Entry, raw string) (*dto.ChartResponse, error) {
	spec, err := s.parser.Parse(raw)
	if err != nil {
		log.Warn().Err(err).Str("dataset_id", entry.ID).Str("raw_response", raw).Msg("Interpreter reply rejected")
		resp := classifiedErrorResponse(entry.ID, err)
		resp.RawResponse = raw
		return resp, nil
	}

	fig, err := s.renderer.Render(entry.Dataset, *spec)
	if err != nil {
		log.Warn().Err(err).Str("dataset_id", entry.ID).Str("chart_type", string(spec.ChartType)).Msg("Chart spec cannot be rendered")
		resp := classifiedErrorResponse(entry.ID, err)
		resp.Spec = spec
		return resp, nil
	}

	img, err := s.encoder.EncodePNG(fig)
	if err != nil {
		log.Error().Err(err).Str("dataset_id", entry.ID).Str("chart_type", string(spec.ChartType)).Msg("Failed to draw chart")
		return nil, fmt.Errorf("failed to draw chart: %w", err)
	}

	resp := &dto.ChartResponse{
		DatasetID:     entry.ID,
		ResultType:    ResultTypeChart,
		Spec:          spec,
		Figure:        fig,
		Image:         base64.StdEncoding.EncodeToString(img),
		ImageMIMEType: "image/png",
		Notes:         spec.AdditionalNotes,
		Insight:       spec.Insight,
	}
	if fig.NoData {
		resp.ResultType = ResultTypeNoData
	}

	location, err := s.artifacts.Put(ctx, entry.ID, uuid.NewString()+".png", img)
	if err != nil {
		log.Warn().Err(err).Str("dataset_id", entry.ID).Msg("Failed to publish chart artifact")
	}
	resp.ArtifactLocation = location
	return resp, nil
}

func (s *chartService) publishEvent(ctx context.Context, resp *dto.ChartResponse, start time.Time) {
	event := model.ChartEvent{
		ID:         uuid.NewString(),
		Time:       time.Now().UTC(),
		DatasetID:  resp.DatasetID,
		Query:      resp.OriginalQuery,
		ResultType: resp.ResultType,
		ErrorKind:  resp.ErrorKind,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if resp.Spec != nil {
		event.ChartType = resp.Spec.ChartType
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to publish chart event")
	}
}

// --- Helper Functions ---

func createErrorResponse(datasetID, query, kind, message string) *dto.ChartResponse {
	errMsg := message
	return &dto.ChartResponse{
		DatasetID:     datasetID,
		OriginalQuery: query,
		ResultType:    ResultTypeError,
		ErrorKind:     kind,
		ErrorMessage:  &errMsg,
	}
}

func classifiedErrorResponse(datasetID string, err error) *dto.ChartResponse {
	kind, ok := charterr.KindOf(err)
	if !ok {
		kind = "internal"
	}
	return createErrorResponse(datasetID, "", string(kind), err.Error())
}
