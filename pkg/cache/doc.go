// Package cache provides the HTTP response store that sits underneath the page cache.
//
// The upstream collection endpoint returns the full post list on every call, so
// the client keeps the last response per URL and revalidates it instead of
// downloading it again:
//
// - Freshness from Cache-Control max-age or Expires (DefaultTTL otherwise, capped at MaxTTL)
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - In-process store on bigcache, optional shared store on Redis
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// # Basic Usage
//
//	store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	key := cache.CacheKey{Host: "jsonplaceholder.typicode.com", Endpoint: "/posts"}
//
//	entry, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from upstream
//	}
//
// # Shared Store
//
//	store, err := cache.OpenRedisStore(ctx, "redis://localhost:6379/0")
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// upstream answers 304 if the collection is unchanged
//	}
//
// # Metrics
//
//   - posts_http_cache_hits_total{layer} - Cache hits
//   - posts_http_cache_misses_total - Cache misses
//   - posts_http_cache_entries{layer} - Entries held in-process
//   - posts_http_304_responses_total - Conditional request successes
//   - posts_http_conditional_requests_total - Conditional requests sent
//   - posts_http_cache_errors_total{operation} - Cache operation errors
//
// This is a response cache, not application state: losing it only costs a refetch.
package cache
