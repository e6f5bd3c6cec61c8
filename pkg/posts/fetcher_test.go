package posts

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Sternrassler/post-pager/internal/testutil"
	"github.com/Sternrassler/post-pager/pkg/cache"
	"github.com/Sternrassler/post-pager/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T, upstream *testutil.MockUpstream) *Fetcher {
	t.Helper()

	cfg := client.DefaultConfig()
	cfg.BaseURL = upstream.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewFetcher(c, DefaultPageSize)
}

func TestFetcher_FetchPage(t *testing.T) {
	upstream := testutil.NewMockUpstream(11)
	defer upstream.Close()

	f := newFetcher(t, upstream)

	page, err := f.FetchPage(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 11, page.Items[0].ID)
	assert.Equal(t, "post 11", page.Items[0].Title)
	assert.Equal(t, 11, page.TotalCount)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}

func TestFetcher_FetchPage_BeyondEnd(t *testing.T) {
	upstream := testutil.NewMockUpstream(11)
	defer upstream.Close()

	page, err := newFetcher(t, upstream).FetchPage(context.Background(), 100)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 11, page.TotalCount)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}

func TestFetcher_FetchPage_InvalidPage(t *testing.T) {
	upstream := testutil.NewMockUpstream(11)
	defer upstream.Close()

	_, err := newFetcher(t, upstream).FetchPage(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.Equal(t, 0, upstream.RequestCount())
}

func TestFetcher_FetchPage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response testutil.MockResponse
		check    func(t *testing.T, err error)
	}{
		{
			name:     "server error is a network error",
			response: testutil.NewServerErrorResponse(),
			check: func(t *testing.T, err error) {
				var netErr *client.NetworkError
				require.True(t, errors.As(err, &netErr), "got %v", err)
				assert.Equal(t, 500, netErr.StatusCode)
			},
		},
		{
			name:     "not found is a network error",
			response: testutil.NewNotFoundResponse(),
			check: func(t *testing.T, err error) {
				var netErr *client.NetworkError
				require.True(t, errors.As(err, &netErr), "got %v", err)
				assert.Equal(t, client.ErrorClassClient, netErr.ErrorClass)
			},
		},
		{
			name:     "null body is a decode error",
			response: testutil.MockResponse{StatusCode: http.StatusOK, Body: "null"},
			check: func(t *testing.T, err error) {
				var decErr *client.DecodeError
				require.True(t, errors.As(err, &decErr), "got %v", err)
				assert.ErrorIs(t, err, errNotCollection)
			},
		},
		{
			name:     "trailing data is a decode error",
			response: testutil.MockResponse{StatusCode: http.StatusOK, Body: `[{"id":1}] trailing-garbage`},
			check: func(t *testing.T, err error) {
				var decErr *client.DecodeError
				require.True(t, errors.As(err, &decErr), "got %v", err)
				assert.ErrorIs(t, err, client.ErrTrailingData)
			},
		},
		{
			name:     "malformed body is a decode error",
			response: testutil.NewMalformedResponse(),
			check: func(t *testing.T, err error) {
				var decErr *client.DecodeError
				require.True(t, errors.As(err, &decErr), "got %v", err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutil.NewMockUpstream(11)
			defer upstream.Close()
			upstream.FailNext(tt.response)

			_, err := newFetcher(t, upstream).FetchPage(context.Background(), 1)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetcher_FetchPage_MalformedBodyNotStored(t *testing.T) {
	upstream := testutil.NewMockUpstream(11)
	defer upstream.Close()
	upstream.EnableETag(`"v1"`)

	store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	cfg := client.DefaultConfig()
	cfg.BaseURL = upstream.URL()
	cfg.Store = store
	c, err := client.New(cfg)
	require.NoError(t, err)
	defer c.Close()
	f := NewFetcher(c, DefaultPageSize)

	upstream.FailNext(testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "null",
		Headers:    map[string]string{"ETag": `"v1"`},
	})
	_, err = f.FetchPage(context.Background(), 1)
	var decErr *client.DecodeError
	require.ErrorAs(t, err, &decErr)

	// the stored null is dropped, so no conditional request can replay it
	page, err := f.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, upstream.RequestCount())
	assert.Empty(t, upstream.LastRequestHeader().Get("If-None-Match"))
}

func TestNewFetcher_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewFetcher(nil, 0).PageSize())
	assert.Equal(t, 10, NewFetcher(nil, 10).PageSize())
}
