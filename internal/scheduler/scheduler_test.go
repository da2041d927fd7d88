package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/store"
)

type countingStore struct {
	store.DatasetStore
	sweeps int
}

func (s *countingStore) EvictExpired(ctx context.Context) int {
	s.sweeps++
	return 1
}

func (s *countingStore) Len() int { return 0 }

func TestSweepDatasets(t *testing.T) {
	s := &countingStore{}
	SweepDatasets(s)()
	SweepDatasets(s)()
	assert.Equal(t, 2, s.sweeps)
}

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{
		MaxEntries:    4,
		TTL:           time.Hour,
		SweepSchedule: "0 */5 * * * *",
	}}
	datasetStore, err := store.NewInMemoryDatasetStore(cfg)
	require.NoError(t, err)
	_, err = datasetStore.Put(context.Background(), model.NewDataset("t", nil))
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	c, err := NewScheduler(lc, cfg, datasetStore)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{MaxEntries: 4, SweepSchedule: "not a schedule"}}
	datasetStore, err := store.NewInMemoryDatasetStore(cfg)
	require.NoError(t, err)

	_, err = NewScheduler(fxtest.NewLifecycle(t), cfg, datasetStore)
	assert.Error(t, err)
}
