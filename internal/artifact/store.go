package artifact

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"inventory-chart-backend/config"
)

// Store publishes rendered chart images. Published artifacts are never read back by the
// service.
type Store interface {
	// Put writes content under datasetID/name and returns where it was stored.
	Put(ctx context.Context, datasetID, name string, content []byte) (string, error)
}

// NewStore selects the backend named by ARTIFACT_BACKEND.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Artifact.Backend {
	case "", "none":
		log.Info().Msg("Artifact publishing disabled")
		return NoopStore{}, nil
	case "disk":
		log.Info().Str("dir", cfg.Artifact.Dir).Msg("Publishing chart artifacts to disk")
		return NewDiskStore(cfg.Artifact.Dir), nil
	case "s3":
		s, err := NewS3Store(cfg.Artifact.S3)
		if err != nil {
			return nil, err
		}
		log.Info().Str("endpoint", cfg.Artifact.S3.Endpoint).Str("bucket", cfg.Artifact.S3.Bucket).Msg("Publishing chart artifacts to S3")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Artifact.Backend)
	}
}

type NoopStore struct{}

func (NoopStore) Put(context.Context, string, string, []byte) (string, error) { return "", nil }

func objectKey(datasetID, name string) (string, error) {
	datasetID = strings.TrimSpace(datasetID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if datasetID == "" {
		return "", fmt.Errorf("dataset id is required")
	}
	if name == "" {
		return "", fmt.Errorf("artifact name is required")
	}
	if strings.Contains(datasetID, "/") || strings.Contains(datasetID, "..") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid artifact path %q/%q", datasetID, name)
	}
	return datasetID + "/" + name, nil
}
