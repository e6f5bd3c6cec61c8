package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/allegro/bigcache"
)

const layerMemory = "memory"

// MemoryStore is an in-process Store backed by bigcache.
type MemoryStore struct {
	cache *bigcache.BigCache
}

// MemoryConfig configures a MemoryStore.
type MemoryConfig struct {
	// LifeWindow bounds how long bigcache keeps any entry, regardless of its Expires
	LifeWindow time.Duration

	// MaxSizeMB caps the cache size; 0 means unbounded
	MaxSizeMB int
}

// DefaultMemoryConfig returns the default in-process store configuration.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		LifeWindow: MaxTTL,
		MaxSizeMB:  64,
	}
}

// NewMemoryStore creates a bigcache-backed store.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if cfg.LifeWindow <= 0 {
		cfg.LifeWindow = MaxTTL
	}

	bcfg := bigcache.DefaultConfig(cfg.LifeWindow)
	bcfg.CleanWindow = time.Minute
	bcfg.Verbose = false
	if cfg.MaxSizeMB > 0 {
		bcfg.HardMaxCacheSize = cfg.MaxSizeMB
	}

	bc, err := bigcache.NewBigCache(bcfg)
	if err != nil {
		return nil, fmt.Errorf("create bigcache: %w", err)
	}
	return &MemoryStore{cache: bc}, nil
}

// Get retrieves a cache entry by key.
func (s *MemoryStore) Get(ctx context.Context, key CacheKey) (*StoredResponse, error) {
	data, err := s.cache.Get(key.String())
	if err != nil {
		// bigcache only fails Get on a missing key
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	entry, err := decodeEntry(data)
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, err
	}

	if entry.IsExpired() {
		_ = s.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerMemory).Inc()
	return entry, nil
}

// Set stores a cache entry; expired entries are skipped.
func (s *MemoryStore) Set(ctx context.Context, key CacheKey, entry *StoredResponse) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.TTL() <= 0 {
		return nil
	}

	data, err := encodeEntry(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}

	if err := s.cache.Set(key.String(), data); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("bigcache set: %w", err)
	}

	CacheSize.WithLabelValues(layerMemory).Set(float64(s.cache.Len()))
	return nil
}

// Delete removes a cache entry. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key CacheKey) error {
	_ = s.cache.Delete(key.String())
	CacheSize.WithLabelValues(layerMemory).Set(float64(s.cache.Len()))
	return nil
}

// Close stops bigcache's cleanup goroutine.
func (s *MemoryStore) Close() error {
	return s.cache.Close()
}
