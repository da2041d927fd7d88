package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-chart-backend/config"
)

func TestDiskStore_Put(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir)

	location, err := s.Put(context.Background(), "ds-1", "chart-1.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ds-1", "chart-1.png"), location)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = os.Stat(location + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_RejectsEscapingPaths(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	for _, tc := range [][2]string{{"", "a.png"}, {"ds", ""}, {"../ds", "a.png"}, {"ds", "../../a.png"}, {"a/b", "c.png"}} {
		_, err := s.Put(context.Background(), tc[0], tc[1], []byte("x"))
		assert.Error(t, err, "%q/%q", tc[0], tc[1])
	}
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, NoopStore{}, s)

	s, err = NewStore(&config.Config{Artifact: config.ArtifactConfig{Backend: "disk", Dir: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &diskStore{}, s)

	_, err = NewStore(&config.Config{Artifact: config.ArtifactConfig{Backend: "s3"}})
	assert.Error(t, err)

	_, err = NewStore(&config.Config{Artifact: config.ArtifactConfig{Backend: "ftp"}})
	assert.Error(t, err)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(config.S3Config{Endpoint: "localhost:9000", Bucket: "charts"})
	assert.Error(t, err)

	s, err := NewS3Store(config.S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "charts"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}
