// Package browser holds the post browser state and the navigation actions on it.
//
// A Browser owns the current page number and the view.State derived from it.
// Every action updates the state and notifies subscribers; rendering is left
// to them.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/post-pager/pkg/pagecache"
	"github.com/Sternrassler/post-pager/pkg/pagination"
	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/Sternrassler/post-pager/pkg/view"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when a navigation target is disabled in the current view.
var ErrUnavailable = errors.New("navigation target unavailable")

// Pages is the page source a Browser reads from. *pagecache.Cache implements it.
type Pages interface {
	Get(ctx context.Context, page int) (*posts.Page, error)
	Peek(page int) (pagecache.Entry, bool)
	PrefetchNeighbors(p *posts.Page)
	TotalPages() (int, bool)
}

// Config holds browser configuration.
type Config struct {
	// StartPage is the page shown by the first Load.
	StartPage int

	// Pagination configures the page-number control.
	Pagination pagination.Config
}

// DefaultConfig returns the default browser configuration.
func DefaultConfig() Config {
	return Config{
		StartPage:  1,
		Pagination: pagination.DefaultConfig(),
	}
}

// Browser is the state store of the post browser.
type Browser struct {
	pages  Pages
	config Config
	logger zerolog.Logger

	mu          sync.Mutex
	current     int
	state       view.State
	subscribers map[int]func(view.State)
	nextSubID   int
}

// New creates a Browser positioned on cfg.StartPage.
func New(pages Pages, cfg Config, logger zerolog.Logger) *Browser {
	if cfg.StartPage < 1 {
		cfg.StartPage = 1
	}
	return &Browser{
		pages:       pages,
		config:      cfg,
		logger:      logger,
		current:     cfg.StartPage,
		state:       view.State{Kind: view.KindLoading, CurrentPage: cfg.StartPage},
		subscribers: make(map[int]func(view.State)),
	}
}

// State returns a snapshot of the current state.
func (b *Browser) State() view.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CurrentPage returns the page the browser is positioned on.
func (b *Browser) CurrentPage() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Load fetches the current page.
func (b *Browser) Load(ctx context.Context) error {
	return b.load(ctx, b.CurrentPage())
}

// Retry fetches the current page again after a failure.
func (b *Browser) Retry(ctx context.Context) error {
	b.logger.Info().Int("page", b.CurrentPage()).Msg("Retrying page load")
	return b.load(ctx, b.CurrentPage())
}

// GoTo moves to page, clamped to the known page count, and loads it.
func (b *Browser) GoTo(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w (got %d)", posts.ErrInvalidPage, page)
	}
	if total, ok := b.pages.TotalPages(); ok && total > 0 {
		page = pagination.Clamp(page, total)
	}

	b.mu.Lock()
	b.current = page
	b.mu.Unlock()

	b.logger.Debug().Int("page", page).Msg("Navigating")
	return b.load(ctx, page)
}

// Next moves to the following page.
func (b *Browser) Next(ctx context.Context) error {
	return b.navigate(ctx, pagination.View.Next)
}

// Previous moves to the preceding page.
func (b *Browser) Previous(ctx context.Context) error {
	return b.navigate(ctx, pagination.View.Previous)
}

// First jumps to page 1.
func (b *Browser) First(ctx context.Context) error {
	return b.navigate(ctx, pagination.View.First)
}

// Last jumps to the last page.
func (b *Browser) Last(ctx context.Context) error {
	return b.navigate(ctx, pagination.View.Last)
}

func (b *Browser) navigate(ctx context.Context, target func(pagination.View) (int, bool)) error {
	page, ok := target(b.State().Pagination)
	if !ok {
		return ErrUnavailable
	}
	return b.GoTo(ctx, page)
}

func (b *Browser) load(ctx context.Context, page int) error {
	// pages already fresh in the cache render without a loading screen
	if e, ok := b.pages.Peek(page); !ok || e.Status != pagecache.StatusFresh {
		b.set(page, view.State{
			Kind:        view.KindLoading,
			CurrentPage: page,
			Pagination:  b.viewFor(page),
		})
	}

	p, err := b.pages.Get(ctx, page)
	if err != nil {
		if !b.set(page, view.State{
			Kind:        view.KindError,
			CurrentPage: page,
			Err:         err,
			Pagination:  b.viewFor(page),
		}) {
			return nil
		}
		b.logger.Error().Err(err).Int("page", page).Msg("Failed to load page")
		return err
	}

	kind := view.KindSuccess
	if p.Empty() {
		kind = view.KindEmpty
	}
	if !b.set(page, view.State{
		Kind:        kind,
		CurrentPage: page,
		Page:        p,
		Pagination:  pagination.NewView(page, p.TotalPages(), p.HasNext, p.HasPrevious, b.config.Pagination),
	}) {
		return nil
	}

	b.pages.PrefetchNeighbors(p)
	return nil
}

// viewFor derives the control for page from the known page count.
func (b *Browser) viewFor(page int) pagination.View {
	total, ok := b.pages.TotalPages()
	if !ok {
		return pagination.View{CurrentPage: page}
	}
	return pagination.NewView(page, total, page < total, page > 1, b.config.Pagination)
}

// set stores s if page is still the current page and notifies subscribers.
// It reports whether the state was stored.
func (b *Browser) set(page int, s view.State) bool {
	b.mu.Lock()
	if b.current != page {
		b.mu.Unlock()
		b.logger.Debug().Int("page", page).Msg("Discarding result for abandoned page")
		return false
	}
	b.state = s
	subs := make([]func(view.State), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return true
}

// Subscribe registers fn for state changes. The returned function unsubscribes.
func (b *Browser) Subscribe(fn func(view.State)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}
