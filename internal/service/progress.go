package service

import (
	"context"
	"time"

	"github.com/dyike/CortexTrack/internal/cache"
	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/internal/storage"
)

// ProgressService is the local fetch path for the tracker: progress store
// reads behind a TTL cache. Bypass mode reads through to sqlite and
// refreshes the cache, which is what the activation and reconciliation
// fetches want.
type ProgressService struct {
	store *storage.Store
	cache *cache.PipelineDataCache
}

func NewProgressService(store *storage.Store, ttl time.Duration, cacheEnabled bool) *ProgressService {
	return &ProgressService{
		store: store,
		cache: cache.NewPipelineDataCache(ttl, cacheEnabled),
	}
}

// FetchPipelineData implements tracker.Fetcher.
func (s *ProgressService) FetchPipelineData(ctx context.Context, symbol, tradeDate string, bypassCache bool) (*models.PipelineData, error) {
	if !bypassCache {
		if data, ok := s.cache.Get(symbol, tradeDate); ok {
			return data, nil
		}
	}

	data, err := s.store.LoadPipelineData(ctx, symbol, tradeDate)
	if err != nil {
		return nil, err
	}
	s.cache.Set(symbol, tradeDate, data)
	return data, nil
}
