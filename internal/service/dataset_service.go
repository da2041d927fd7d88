package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/dataset"
	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/store"
)

// ErrDatasetStore wraps failures to keep an uploaded dataset, as opposed to failures to
// read it.
var ErrDatasetStore = errors.New("failed to store dataset")

type DatasetService interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*dto.DatasetResponse, error)
	Get(ctx context.Context, id string) (*dto.DatasetResponse, error)
	Delete(ctx context.Context, id string) error
}

type datasetService struct {
	store      store.DatasetStore
	sampleRows int
}

func NewDatasetService(cfg *config.Config, datasetStore store.DatasetStore) DatasetService {
	return &datasetService{store: datasetStore, sampleRows: cfg.Dataset.SampleRows}
}

func (s *datasetService) Upload(ctx context.Context, filename string, r io.Reader) (*dto.DatasetResponse, error) {
	ds, err := dataset.Load(filename, r)
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("Failed to load uploaded dataset")
		return nil, err
	}
	entry, err := s.store.Put(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetStore, err)
	}
	log.Info().
		Str("dataset_id", entry.ID).
		Str("file", filename).
		Int("rows", ds.NumRows()).
		Int("columns", len(ds.Columns)).
		Msg("Dataset uploaded")
	return s.toResponse(entry), nil
}

func (s *datasetService) Get(ctx context.Context, id string) (*dto.DatasetResponse, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(entry), nil
}

func (s *datasetService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("dataset_id", id).Msg("Dataset deleted")
	return nil
}

func (s *datasetService) toResponse(entry *store.Entry) *dto.DatasetResponse {
	return &dto.DatasetResponse{
		ID:         entry.ID,
		Name:       entry.Dataset.Name,
		RowCount:   entry.Dataset.NumRows(),
		Columns:    describeColumns(entry.Dataset),
		SampleRows: entry.Dataset.Sample(s.sampleRows),
		UploadedAt: entry.UploadedAt,
	}
}

func describeColumns(ds *model.Dataset) []dto.DatasetColumn {
	columns := make([]dto.DatasetColumn, len(ds.Columns))
	for i, c := range ds.Columns {
		columns[i] = dto.DatasetColumn{Name: c.Name, Kind: string(c.Kind)}
	}
	return columns
}
