package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/model"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
)

// Entry is a stored dataset with its upload metadata.
type Entry struct {
	ID         string
	Dataset    *model.Dataset
	UploadedAt time.Time
	lastAccess time.Time
}

type DatasetStore interface {
	Put(ctx context.Context, ds *model.Dataset) (*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	Delete(ctx context.Context, id string) error
	EvictExpired(ctx context.Context) int
	Len() int
}

// inMemoryDatasetStore keeps at most maxEntries datasets, dropping the least recently
// used one when full, and forgets datasets idle for longer than ttl.
type inMemoryDatasetStore struct {
	cache *lru.Cache[string, *Entry]
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

func NewInMemoryDatasetStore(cfg *config.Config) (DatasetStore, error) {
	return newInMemoryDatasetStore(cfg.Dataset.MaxEntries, cfg.Dataset.TTL, time.Now)
}

func newInMemoryDatasetStore(maxEntries int, ttl time.Duration, now func() time.Time) (*inMemoryDatasetStore, error) {
	cache, err := lru.NewWithEvict[string, *Entry](maxEntries, func(id string, e *Entry) {
		log.Debug().Str("dataset_id", id).Str("dataset", e.Dataset.Name).Msg("Dataset evicted from store")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset cache: %w", err)
	}
	return &inMemoryDatasetStore{cache: cache, ttl: ttl, now: now}, nil
}

func (s *inMemoryDatasetStore) Put(ctx context.Context, ds *model.Dataset) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e := &Entry{ID: uuid.NewString(), Dataset: ds, UploadedAt: now, lastAccess: now}
	s.cache.Add(e.ID, e)
	return e, nil
}

func (s *inMemoryDatasetStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrDatasetNotFound
	}
	now := s.now()
	if s.expired(e, now) {
		s.cache.Remove(id)
		return nil, ErrDatasetNotFound
	}
	e.lastAccess = now
	return e, nil
}

func (s *inMemoryDatasetStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cache.Remove(id) {
		return ErrDatasetNotFound
	}
	return nil
}

// EvictExpired removes every dataset idle for longer than the TTL and reports how many
// were removed.
func (s *inMemoryDatasetStore) EvictExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for _, id := range s.cache.Keys() {
		if e, ok := s.cache.Peek(id); ok && s.expired(e, now) {
			s.cache.Remove(id)
			removed++
		}
	}
	return removed
}

func (s *inMemoryDatasetStore) Len() int {
	return s.cache.Len()
}

func (s *inMemoryDatasetStore) expired(e *Entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastAccess) > s.ttl
}
