package memory

import (
	"sync"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/metrics"
)

// CacheEntry wraps one cached unified record. AccessCount is diagnostic only;
// eviction order is strictly by LastAccessed.
type CacheEntry struct {
	Key          string                  `json:"key"`
	Metadata     *domain.UnifiedMetadata `json:"metadata"`
	CachedAt     time.Time               `json:"cachedAt"`
	TTL          time.Duration           `json:"ttl"`
	AccessCount  int64                   `json:"accessCount"`
	LastAccessed time.Time               `json:"lastAccessed"`
}

type EntryStats struct {
	Key          string        `json:"key"`
	Age          time.Duration `json:"age"`
	AccessCount  int64         `json:"accessCount"`
	LastAccessed time.Time     `json:"lastAccessed"`
}

type CacheStats struct {
	Size    int          `json:"size"`
	HitRate float64      `json:"hitRate"`
	Entries []EntryStats `json:"entries"`
}

// MetadataCache is a bounded TTL + LRU store for unified metadata, safe for
// concurrent use. Expired entries are dropped lazily on lookup.
type MetadataCache struct {
	mu         sync.Mutex
	entries    map[string]*CacheEntry
	maxEntries int
	hits       uint64
	misses     uint64
}

func NewMetadataCache(maxEntries int) *MetadataCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MetadataCache{
		entries:    make(map[string]*CacheEntry),
		maxEntries: maxEntries,
	}
}

func (c *MetadataCache) Get(key string) (*domain.UnifiedMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.Inc()
		return nil, false
	}

	if time.Since(entry.CachedAt) > entry.TTL {
		delete(c.entries, key)
		c.misses++
		metrics.CacheMisses.Inc()
		metrics.CacheEvictions.Inc()
		return nil, false
	}

	entry.AccessCount++
	entry.LastAccessed = time.Now()
	c.hits++
	metrics.CacheHits.Inc()
	return entry.Metadata, true
}

func (c *MetadataCache) Put(key string, metadata *domain.UnifiedMetadata, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[key] = &CacheEntry{
		Key:          key,
		Metadata:     metadata,
		CachedAt:     now,
		TTL:          ttl,
		AccessCount:  0,
		LastAccessed: now,
	}
}

// evictOldest removes the entry with the smallest LastAccessed timestamp.
// Caller must hold the lock.
func (c *MetadataCache) evictOldest() {
	var oldestKey string
	var oldest time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.LastAccessed.Before(oldest) {
			oldestKey = key
			oldest = entry.LastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		metrics.CacheEvictions.Inc()
	}
}

func (c *MetadataCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:    len(c.entries),
		Entries: make([]EntryStats, 0, len(c.entries)),
	}

	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}

	for _, entry := range c.entries {
		stats.Entries = append(stats.Entries, EntryStats{
			Key:          entry.Key,
			Age:          time.Since(entry.CachedAt),
			AccessCount:  entry.AccessCount,
			LastAccessed: entry.LastAccessed,
		})
	}

	return stats
}

func (c *MetadataCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
	c.hits = 0
	c.misses = 0
}
