package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store holds upstream responses keyed by request.
type Store interface {
	// Get returns ErrCacheMiss if the key doesn't exist or the entry is expired.
	Get(ctx context.Context, key CacheKey) (*StoredResponse, error)
	// Set is a no-op for entries that are already expired.
	Set(ctx context.Context, key CacheKey, entry *StoredResponse) error
	Delete(ctx context.Context, key CacheKey) error
	Close() error
}

// UpdateTTL moves the expiry of an existing entry, e.g. after a 304 Not Modified.
func UpdateTTL(ctx context.Context, store Store, key CacheKey, newExpires time.Time) error {
	entry, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	entry.Expires = newExpires
	return store.Set(ctx, key, entry)
}

func encodeEntry(entry *StoredResponse) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

func decodeEntry(data []byte) (*StoredResponse, error) {
	var entry StoredResponse
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}
