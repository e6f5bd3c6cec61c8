package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/post-pager/pkg/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page number must be >= 1")

// errNotCollection is wrapped by a DecodeError when the body is JSON null.
var errNotCollection = errors.New("response is not a post collection")

// Fetcher loads pages of posts from the upstream collection.
type Fetcher struct {
	client   *client.Client
	pageSize int
	logger   zerolog.Logger
}

// NewFetcher creates a page-fetcher. pageSize <= 0 selects DefaultPageSize.
func NewFetcher(c *client.Client, pageSize int) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{
		client:   c,
		pageSize: pageSize,
		logger:   log.With().Str("component", "fetcher").Logger(),
	}
}

// PageSize returns the configured page size.
func (f *Fetcher) PageSize() int {
	return f.pageSize
}

// FetchAll retrieves the whole upstream collection.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Post, error) {
	path := f.client.CollectionPath()
	var all []Post
	if err := f.client.GetJSON(ctx, path, &all); err != nil {
		return nil, err
	}
	if all == nil {
		f.client.Invalidate(ctx, path)
		return nil, &client.DecodeError{Path: path, Err: errNotCollection}
	}
	return all, nil
}

// FetchPage retrieves the collection and returns page pageNumber of it.
// Errors are *client.NetworkError or *client.DecodeError.
func (f *Fetcher) FetchPage(ctx context.Context, pageNumber int) (*Page, error) {
	if pageNumber < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPage, pageNumber)
	}

	start := time.Now()
	all, err := f.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	page := Paginate(all, pageNumber, f.pageSize)

	f.logger.Debug().
		Int("page", pageNumber).
		Int("items", len(page.Items)).
		Int("total", page.TotalCount).
		Dur("duration", time.Since(start)).
		Msg("Fetched page")

	return page, nil
}
