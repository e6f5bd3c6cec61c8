package pagecache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// PageFetcher fetches a single page from the upstream.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*posts.Page, error)
}

// Config holds page cache configuration.
type Config struct {
	// FreshFor is how long a fetched page is served without refetching.
	FreshFor time.Duration

	// RetainFor is how long an unused page is kept before eviction.
	RetainFor time.Duration

	// SweepInterval is how often the sweeper looks for entries to evict.
	SweepInterval time.Duration

	// WarmConcurrency bounds parallel fetches in Warm.
	WarmConcurrency int

	// Retry configures retries of failed fetches.
	Retry RetryConfig
}

// DefaultConfig returns the default page cache configuration.
func DefaultConfig() Config {
	return Config{
		FreshFor:        5 * time.Minute,
		RetainFor:       10 * time.Minute,
		SweepInterval:   1 * time.Minute,
		WarmConcurrency: 4,
		Retry:           DefaultRetryConfig(),
	}
}

// Cache is a page cache keyed by page number. Create one per application and
// share it by reference.
type Cache struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
	now     func() time.Time

	group singleflight.Group

	mu          sync.Mutex
	entries     map[int]*entry
	totalPages  int
	totalKnown  bool
	subscribers map[int]func(Event)
	nextSubID   int
	closed      bool
	started     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a page cache on top of fetcher.
func New(fetcher PageFetcher, cfg Config) (*Cache, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	if cfg.FreshFor <= 0 {
		return nil, fmt.Errorf("fresh_for must be > 0 (got %s)", cfg.FreshFor)
	}
	if cfg.RetainFor < cfg.FreshFor {
		return nil, fmt.Errorf("retain_for must be >= fresh_for (got %s < %s)", cfg.RetainFor, cfg.FreshFor)
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.WarmConcurrency <= 0 {
		cfg.WarmConcurrency = 4
	}
	if cfg.Retry.BackoffMultiplier < 1 {
		cfg.Retry.BackoffMultiplier = 2.0
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Cache{
		fetcher:     fetcher,
		config:      cfg,
		logger:      log.With().Str("component", "pagecache").Logger(),
		now:         time.Now,
		entries:     make(map[int]*entry),
		subscribers: make(map[int]func(Event)),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start launches the eviction sweeper. It stops when ctx is done or on Close.
func (c *Cache) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Close stops the sweeper, cancels in-flight fetches and waits for prefetches.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// Get returns page number page, from cache when fresh, otherwise by fetching it.
// Fetches run on the cache's own context; ctx only bounds how long the caller waits.
func (c *Cache) Get(ctx context.Context, page int) (*posts.Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w (got %d)", posts.ErrInvalidPage, page)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	now := c.now()
	if e, ok := c.entries[page]; ok && e.fresh(now, c.config.FreshFor) {
		e.lastAccess = now
		p := e.page
		c.mu.Unlock()

		pageCacheHits.Inc()
		c.logger.Debug().Int("page", page).Msg("Page cache hit")
		return p, nil
	}
	c.mu.Unlock()

	pageCacheMisses.Inc()
	c.logger.Debug().Int("page", page).Msg("Page cache miss")
	return c.load(ctx, page)
}

// load joins or starts the single in-flight fetch for page.
func (c *Cache) load(ctx context.Context, page int) (*posts.Page, error) {
	ch := c.group.DoChan(strconv.Itoa(page), func() (interface{}, error) {
		return c.fetch(page)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug().Int("page", page).Msg("Joined in-flight fetch")
		}
		return res.Val.(*posts.Page), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetch performs the fetch for page with retries and records the outcome.
func (c *Cache) fetch(page int) (*posts.Page, error) {
	c.mu.Lock()
	e, ok := c.entries[page]
	if !ok {
		e = &entry{lastAccess: c.now()}
		c.entries[page] = e
		pageCacheEntries.Set(float64(len(c.entries)))
	}
	e.inFlight = true
	c.mu.Unlock()
	c.notify(Event{Page: page, Status: StatusPending})

	var result *posts.Page
	attempts, err := c.retryWithBackoff(c.ctx, page, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", errFetchPanic, r)
			}
		}()

		p, err := c.fetcher.FetchPage(c.ctx, page)
		if err != nil {
			return err
		}
		result = p
		return nil
	})

	c.mu.Lock()
	now := c.now()
	// the sweeper never evicts in-flight entries, but Invalidate/Clear may have
	e, ok = c.entries[page]
	if !ok {
		e = &entry{}
		c.entries[page] = e
		pageCacheEntries.Set(float64(len(c.entries)))
	}
	e.inFlight = false
	e.lastAccess = now

	if err != nil {
		e.err = err
		c.mu.Unlock()

		pageFetchesTotal.WithLabelValues("failed").Inc()
		failed := &FetchFailed{Page: page, Attempts: attempts, Err: err}
		c.logger.Error().Err(err).Int("page", page).Int("attempts", attempts).Msg("Page fetch failed")
		c.notify(Event{Page: page, Status: StatusError, Err: failed})
		return nil, failed
	}

	e.page = result
	e.err = nil
	e.fetchedAt = now
	c.totalPages = result.TotalPages()
	c.totalKnown = true
	c.mu.Unlock()

	pageFetchesTotal.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Int("page", page).
		Int("items", len(result.Items)).
		Int("attempts", attempts).
		Msg("Page fetched")
	c.notify(Event{Page: page, Status: StatusFresh})
	return result, nil
}

// Prefetch fetches page in the background. It never reports errors and is a
// no-op for pages out of range, already fresh, or already in flight.
func (c *Cache) Prefetch(page int) {
	if page < 1 {
		pagePrefetchesTotal.WithLabelValues("skipped").Inc()
		return
	}

	c.mu.Lock()
	if c.closed || (c.totalKnown && page > c.totalPages) {
		c.mu.Unlock()
		pagePrefetchesTotal.WithLabelValues("skipped").Inc()
		return
	}
	if e, ok := c.entries[page]; ok && (e.inFlight || e.fresh(c.now(), c.config.FreshFor)) {
		c.mu.Unlock()
		pagePrefetchesTotal.WithLabelValues("skipped").Inc()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()

		if _, err := c.load(c.ctx, page); err != nil {
			pagePrefetchesTotal.WithLabelValues("failed").Inc()
			c.logger.Warn().Err(err).Int("page", page).Msg("Prefetch failed")
			return
		}
		pagePrefetchesTotal.WithLabelValues("ok").Inc()
		c.logger.Debug().Int("page", page).Msg("Prefetched page")
	}()
}

// PrefetchNeighbors prefetches the pages adjacent to p.
func (c *Cache) PrefetchNeighbors(p *posts.Page) {
	if p == nil {
		return
	}
	if p.HasNext {
		c.Prefetch(p.PageNumber + 1)
	}
	if p.HasPrevious {
		c.Prefetch(p.PageNumber - 1)
	}
}

// Peek returns a snapshot of the entry for page without fetching.
func (c *Cache) Peek(page int) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[page]
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(c.now(), c.config.FreshFor), true
}

// TotalPages returns the page count revealed by the latest successful fetch.
func (c *Cache) TotalPages() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages, c.totalKnown
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate drops the entry for page. An in-flight fetch still completes and
// stores its result.
func (c *Cache) Invalidate(page int) {
	c.mu.Lock()
	delete(c.entries, page)
	pageCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[int]*entry)
	c.totalPages = 0
	c.totalKnown = false
	pageCacheEntries.Set(0)
	c.mu.Unlock()
}

// Sweep evicts entries unused for longer than the retention window.
// It returns the number of evicted entries.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	now := c.now()
	evicted := 0
	for page, e := range c.entries {
		if e.inFlight {
			continue
		}
		if now.Sub(e.lastAccess) >= c.config.RetainFor {
			delete(c.entries, page)
			evicted++
		}
	}
	pageCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	if evicted > 0 {
		pageCacheEvictions.Add(float64(evicted))
		c.logger.Debug().Int("evicted", evicted).Msg("Swept page cache")
	}
	return evicted
}

// Subscribe registers fn for status change events. The returned function
// unsubscribes. fn runs on the goroutine that changed the status and must not block.
func (c *Cache) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// SetClock replaces the time source (for testing).
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
