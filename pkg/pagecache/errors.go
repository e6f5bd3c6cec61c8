package pagecache

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("page cache closed")

// errFetchPanic wraps a panic raised by a PageFetcher.
var errFetchPanic = errors.New("page fetcher panicked")

// FetchFailed is returned once every retry of a page fetch has failed.
type FetchFailed struct {
	Page     int
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *FetchFailed) Error() string {
	return fmt.Sprintf("fetch page %d failed after %d attempts: %v", e.Page, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchFailed) Unwrap() error {
	return e.Err
}
