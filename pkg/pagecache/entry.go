package pagecache

import (
	"fmt"
	"time"

	"github.com/Sternrassler/post-pager/pkg/posts"
)

// Status is the fetch state of a cached page.
type Status int

const (
	// StatusPending means a fetch for the page is in flight.
	StatusPending Status = iota
	// StatusFresh means the page was fetched within the freshness window.
	StatusFresh
	// StatusStale means the page is past the freshness window and will be refetched on Get.
	StatusStale
	// StatusError means the last fetch failed.
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is a snapshot of a cached page.
type Entry struct {
	Page       *posts.Page
	Status     Status
	FetchedAt  time.Time
	LastAccess time.Time
	Err        error
}

// Event is delivered to subscribers whenever a page changes status.
type Event struct {
	Page   int
	Status Status
	Err    error
}

// entry is the mutable record behind an Entry; guarded by Cache.mu.
type entry struct {
	page       *posts.Page
	fetchedAt  time.Time
	lastAccess time.Time
	inFlight   bool
	err        error
}

func (e *entry) fresh(now time.Time, freshFor time.Duration) bool {
	return e.page != nil && e.err == nil && now.Sub(e.fetchedAt) < freshFor
}

func (e *entry) status(now time.Time, freshFor time.Duration) Status {
	switch {
	case e.inFlight:
		return StatusPending
	case e.err != nil:
		return StatusError
	case e.fresh(now, freshFor):
		return StatusFresh
	default:
		return StatusStale
	}
}

func (e *entry) snapshot(now time.Time, freshFor time.Duration) Entry {
	return Entry{
		Page:       e.page,
		Status:     e.status(now, freshFor),
		FetchedAt:  e.fetchedAt,
		LastAccess: e.lastAccess,
		Err:        e.err,
	}
}
