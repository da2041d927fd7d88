package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

type diskStore struct {
	dir string
	mu  sync.Mutex
}

func NewDiskStore(dir string) Store {
	return &diskStore{dir: dir}
}

// Put writes to a temporary file first and renames it into place, so readers never see a
// partial image.
func (s *diskStore) Put(ctx context.Context, datasetID, name string, content []byte) (string, error) {
	key, err := objectKey(datasetID, name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Error().Err(err).Str("dir", filepath.Dir(path)).Msg("Failed to create artifact directory")
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	tempFilePath := path + ".tmp"
	if err := os.WriteFile(tempFilePath, content, 0o644); err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary artifact file")
		return "", err
	}
	if err := os.Rename(tempFilePath, path); err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", path).Msg("Failed to rename artifact file")
		_ = os.Remove(tempFilePath)
		return "", err
	}
	log.Debug().Str("file", path).Int("bytes", len(content)).Msg("Saved chart artifact")
	return path, nil
}
