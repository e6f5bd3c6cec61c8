package pagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_page_cache_hits_total",
		Help: "Total number of page reads served from a fresh cache entry",
	})

	pageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_page_cache_misses_total",
		Help: "Total number of page reads that required a fetch",
	})

	pageFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_page_fetches_total",
		Help: "Total page fetches by result",
	}, []string{"result"}) // "ok", "failed"

	pageFetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_page_fetch_retries_total",
		Help: "Total number of page fetch retry attempts",
	})

	pageFetchBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posts_page_fetch_backoff_seconds",
		Help:    "Backoff duration before page fetch retries",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	})

	pagePrefetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_page_prefetches_total",
		Help: "Total page prefetches by result",
	}, []string{"result"}) // "ok", "failed", "skipped"

	pageCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_page_cache_evictions_total",
		Help: "Total number of pages evicted after the retention window",
	})

	pageCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "posts_page_cache_entries",
		Help: "Current number of cached pages",
	})
)
