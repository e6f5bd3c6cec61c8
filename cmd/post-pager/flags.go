package main

import (
	"fmt"
	"time"

	"github.com/Sternrassler/post-pager/pkg/browser"
	"github.com/Sternrassler/post-pager/pkg/client"
	"github.com/Sternrassler/post-pager/pkg/logging"
	"github.com/Sternrassler/post-pager/pkg/pagecache"
	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/spf13/pflag"
)

// loggerFlags holds the logging flags until they are validated.
type loggerFlags struct {
	level  string
	pretty bool
}

func newLoggerFlags(fs *pflag.FlagSet) *loggerFlags {
	f := &loggerFlags{}
	def := logging.DefaultConfig()
	fs.StringVar(&f.level, "log-level", string(def.Level), "Logging level: debug, info, warn, error or disabled")
	fs.BoolVar(&f.pretty, "log-pretty", def.Pretty, "Human-readable log output instead of JSON")
	return f
}

func (f *loggerFlags) config(noColor bool) (logging.Config, error) {
	level, err := logging.ParseLevel(f.level)
	if err != nil {
		return logging.Config{}, err
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Pretty = f.pretty
	cfg.NoColor = noColor
	return cfg, nil
}

// upstreamFlags configures the HTTP client and its response store.
type upstreamFlags struct {
	client   client.Config
	pageSize int
	redisURL string
}

func newUpstreamFlags(fs *pflag.FlagSet) *upstreamFlags {
	f := &upstreamFlags{client: client.DefaultConfig()}
	fs.StringVar(&f.client.BaseURL, "base-url", f.client.BaseURL, "Base URL of the upstream API")
	fs.StringVar(&f.client.CollectionPath, "collection-path", f.client.CollectionPath, "Path of the post collection")
	fs.DurationVar(&f.client.Timeout, "timeout", f.client.Timeout, "Timeout per upstream request")
	fs.IntVar(&f.pageSize, "page-size", posts.DefaultPageSize, "Posts per page")
	fs.StringVar(&f.redisURL, "redis-url", "", "Redis URL for a shared response store (default: in-memory)")
	return f
}

func (f *upstreamFlags) validate() error {
	if f.pageSize < 1 {
		return fmt.Errorf("page-size must be >= 1 (got %d)", f.pageSize)
	}
	return nil
}

// cacheFlags configures the page cache.
type cacheFlags struct {
	cache pagecache.Config
	warm  int
}

func newCacheFlags(fs *pflag.FlagSet) *cacheFlags {
	f := &cacheFlags{cache: pagecache.DefaultConfig()}
	fs.DurationVar(&f.cache.FreshFor, "fresh-for", f.cache.FreshFor, "How long a fetched page is served without refetching")
	fs.DurationVar(&f.cache.RetainFor, "retain-for", f.cache.RetainFor, "How long an unused page is kept")
	fs.IntVar(&f.cache.Retry.MaxRetries, "retries", f.cache.Retry.MaxRetries, "Retries after a failed page fetch")
	fs.DurationVar(&f.cache.Retry.InitialBackoff, "retry-backoff", f.cache.Retry.InitialBackoff, "Initial backoff between retries")
	fs.IntVar(&f.warm, "warm", 0, "Pages to load into the cache at startup")
	return f
}

// browserFlags configures the interactive browser.
type browserFlags struct {
	browser     browser.Config
	noColor     bool
	metricsAddr string
}

func newBrowserFlags(fs *pflag.FlagSet) *browserFlags {
	f := &browserFlags{browser: browser.DefaultConfig()}
	fs.IntVar(&f.browser.StartPage, "page", f.browser.StartPage, "Page to open")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable coloured output")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return f
}

func (f *browserFlags) validate() error {
	if f.browser.StartPage < 1 {
		return fmt.Errorf("page must be >= 1 (got %d)", f.browser.StartPage)
	}
	return nil
}

// retryBackoffCap keeps the backoff ceiling above the initial backoff.
func retryBackoffCap(initial time.Duration) time.Duration {
	return max(initial*8, pagecache.DefaultRetryConfig().MaxBackoff)
}
