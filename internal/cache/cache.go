package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dyike/CortexTrack/internal/models"
)

// PipelineDataCache is a small TTL memory cache in front of the progress
// store, so a snapshot poll every few seconds does not hammer sqlite when
// several readers watch the same subject.
type PipelineDataCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedData
	ttl     time.Duration
	enabled bool
}

type cachedData struct {
	data      *models.PipelineData
	timestamp time.Time
}

func NewPipelineDataCache(ttl time.Duration, enabled bool) *PipelineDataCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PipelineDataCache{
		entries: make(map[string]*cachedData),
		ttl:     ttl,
		enabled: enabled,
	}
}

func cacheKey(symbol, tradeDate string) string {
	return fmt.Sprintf("%s-%s", symbol, tradeDate)
}

func (c *PipelineDataCache) Get(symbol, tradeDate string) (*models.PipelineData, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.entries[cacheKey(symbol, tradeDate)]
	if !exists || time.Since(cached.timestamp) > c.ttl {
		return nil, false
	}
	return cached.data, true
}

func (c *PipelineDataCache) Set(symbol, tradeDate string, data *models.PipelineData) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(symbol, tradeDate)] = &cachedData{
		data:      data,
		timestamp: time.Now(),
	}

	// Drop anything expired while we hold the lock; the key space is tiny
	// (one entry per watched subject) so a full sweep is cheap.
	for key, entry := range c.entries {
		if time.Since(entry.timestamp) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *PipelineDataCache) Invalidate(symbol, tradeDate string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(symbol, tradeDate))
}
