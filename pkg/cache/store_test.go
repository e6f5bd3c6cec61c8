package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStores returns every Store implementation, backed by in-process servers.
func newStores(t *testing.T) map[string]Store {
	t.Helper()

	mem, err := NewMemoryStore(DefaultMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	mr := miniredis.RunT(t)
	rs := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rs.Close() })

	return map[string]Store{
		"memory": mem,
		"redis":  rs,
	}
}

func testEntry(expires time.Time) *StoredResponse {
	return &StoredResponse{
		Body:       []byte(`[{"id":1,"userId":1,"title":"t","body":"b"}]`),
		ETag:       `W/"abc123"`,
		Expires:    expires,
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		StoredAt:   time.Now(),
	}
}

func TestStore_SetAndGet(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := CacheKey{Host: "example.com", Endpoint: "/posts"}
			entry := testEntry(time.Now().Add(5 * time.Minute))

			require.NoError(t, store.Set(ctx, key, entry))

			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, entry.Body, got.Body)
			assert.Equal(t, entry.ETag, got.ETag)
			assert.Equal(t, entry.StatusCode, got.StatusCode)
			assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))
		})
	}
}

func TestStore_Miss(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), CacheKey{Endpoint: "/nonexistent"})
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
}

func TestStore_ExpiredEntryNotStored(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := CacheKey{Endpoint: "/posts"}

			require.NoError(t, store.Set(ctx, key, testEntry(time.Now().Add(-time.Hour))))

			_, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := CacheKey{Endpoint: "/posts"}

			require.NoError(t, store.Set(ctx, key, testEntry(time.Now().Add(time.Minute))))
			_, err := store.Get(ctx, key)
			require.NoError(t, err)

			require.NoError(t, store.Delete(ctx, key))
			_, err = store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
}

func TestStore_NilEntry(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.Set(context.Background(), CacheKey{Endpoint: "/posts"}, nil))
		})
	}
}

func TestUpdateTTL(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := CacheKey{Endpoint: "/posts"}
			require.NoError(t, store.Set(ctx, key, testEntry(time.Now().Add(time.Minute))))

			newExpires := time.Now().Add(10 * time.Minute)
			require.NoError(t, UpdateTTL(ctx, store, key, newExpires))

			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.WithinDuration(t, newExpires, got.Expires, time.Second)
		})
	}
}

func TestUpdateTTL_Miss(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			err := UpdateTTL(context.Background(), store, CacheKey{Endpoint: "/missing"}, time.Now().Add(time.Minute))
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
}

func TestRedisStore_KeyExpiresInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()

	ctx := context.Background()
	key := CacheKey{Endpoint: "/posts"}
	require.NoError(t, store.Set(ctx, key, testEntry(time.Now().Add(time.Minute))))

	assert.True(t, mr.Exists(key.String()))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(key.String()))
}

func TestRedisStore_InvalidEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()

	key := CacheKey{Endpoint: "/posts"}
	require.NoError(t, mr.Set(key.String(), "not json"))

	_, err := store.Get(context.Background(), key)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestOpenRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := OpenRedisStore(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = OpenRedisStore(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestNewRedisStore_Panic(t *testing.T) {
	assert.Panics(t, func() { NewRedisStore(nil) })
}
