package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/store"
)

// NewScheduler registers the periodic sweep of idle datasets and ties the cron runner to
// the application lifecycle.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, datasetStore store.DatasetStore) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	schedule := cfg.Dataset.SweepSchedule
	if _, err := c.AddFunc(schedule, SweepDatasets(datasetStore)); err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Dur("ttl", cfg.Dataset.TTL).Msg("Scheduled idle dataset sweep")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}

// SweepDatasets returns the cron job that drops idle datasets from the store.
func SweepDatasets(datasetStore store.DatasetStore) func() {
	return func() {
		removed := datasetStore.EvictExpired(context.Background())
		if removed > 0 {
			log.Info().Int("removed", removed).Int("remaining", datasetStore.Len()).Msg("Swept idle datasets")
			return
		}
		log.Debug().Int("remaining", datasetStore.Len()).Msg("No idle datasets to sweep")
	}
}
