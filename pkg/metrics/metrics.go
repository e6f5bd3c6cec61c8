// Package metrics exposes the post-pager Prometheus metrics over HTTP.
// All metrics are defined in their respective packages (client, cache, pagecache)
// to maintain modularity and avoid circular dependencies.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the default Prometheus registry used by post-pager.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// ShutdownTimeout bounds graceful shutdown of the metrics server.
const ShutdownTimeout = 5 * time.Second

// Handler returns the HTTP handler serving /metrics and /health.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// Serve runs the metrics server on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger := log.With().Str("component", "metrics").Logger()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	logger.Info().Msg("Metrics server stopped")
	return nil
}

// Metrics Documentation
//
// Upstream Metrics (pkg/client):
//   - posts_upstream_requests_total{status} (Counter): Upstream requests by HTTP status
//   - posts_upstream_request_duration_seconds (Histogram): Upstream request duration
//   - posts_upstream_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// HTTP Response Store Metrics (pkg/cache):
//   - posts_http_cache_hits_total{layer} (Counter): Store hits by layer (memory, redis)
//   - posts_http_cache_misses_total (Counter): Store misses
//   - posts_http_cache_entries{layer} (Gauge): Entries written per layer
//   - posts_http_304_responses_total (Counter): 304 Not Modified responses
//   - posts_http_conditional_requests_total (Counter): Conditional requests sent
//   - posts_http_cache_errors_total{operation} (Counter): Store operation errors
//
// Page Cache Metrics (pkg/pagecache):
//   - posts_page_cache_hits_total (Counter): Pages served from a fresh entry
//   - posts_page_cache_misses_total (Counter): Page reads that required a fetch
//   - posts_page_fetches_total{result} (Counter): Page fetches by result (ok, failed)
//   - posts_page_fetch_retries_total (Counter): Page fetch retry attempts
//   - posts_page_fetch_backoff_seconds (Histogram): Backoff before retries
//   - posts_page_prefetches_total{result} (Counter): Prefetches (ok, failed, skipped)
//   - posts_page_cache_evictions_total (Counter): Pages evicted after the retention window
//   - posts_page_cache_entries (Gauge): Current number of cached pages
//
// Example Prometheus Queries:
//
//   # Page Cache Hit Rate
//   sum(rate(posts_page_cache_hits_total[5m])) /
//   (sum(rate(posts_page_cache_hits_total[5m])) + sum(rate(posts_page_cache_misses_total[5m])))
//
//   # Upstream Error Rate by Class
//   sum by (class) (rate(posts_upstream_errors_total[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(posts_upstream_request_duration_seconds_bucket[5m]))
//
//   # Wasted Prefetches
//   rate(posts_page_prefetches_total{result="failed"}[5m])
