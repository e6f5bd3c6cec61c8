package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Sternrassler/post-pager/pkg/pagination"
	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, s State) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, Options{NoColor: true}))
	return buf.String()
}

func samplePage(pageNumber, count, total int) *posts.Page {
	all := make([]posts.Post, total)
	for i := range all {
		all[i] = posts.Post{ID: i + 1, UserID: i/10 + 1, Title: "title", Body: "line one\nline two"}
	}
	return posts.Paginate(all, pageNumber, count)
}

func TestRender_Loading(t *testing.T) {
	out := render(t, State{Kind: KindLoading, CurrentPage: 2})

	assert.Contains(t, out, "Loading post data...")
	assert.Equal(t, SkeletonRows, strings.Count(out, "░░░░\n"))
	assert.NotContains(t, out, "Page 2 of")
}

func TestRender_Error(t *testing.T) {
	out := render(t, State{Kind: KindError, Err: errors.New("upstream server error (status 500)")})

	assert.Contains(t, out, "Failed to load post data")
	assert.Contains(t, out, "Error: upstream server error (status 500)")
	assert.Contains(t, out, "retry")

	out = render(t, State{Kind: KindError})
	assert.Contains(t, out, "An unexpected error occurred")
}

func TestRender_Empty(t *testing.T) {
	page := samplePage(100, 5, 11)
	out := render(t, State{
		Kind:       KindEmpty,
		Page:       page,
		Pagination: pagination.NewView(100, 3, false, true, pagination.DefaultConfig()),
	})

	assert.Contains(t, out, "No posts on this page")
	assert.Contains(t, out, "11 posts in total")
	assert.NotContains(t, out, "Loading")
	assert.NotContains(t, out, "Showing")
}

func TestRender_Success(t *testing.T) {
	page := samplePage(10, 5, 100)
	out := render(t, State{
		Kind:       KindSuccess,
		Page:       page,
		Pagination: pagination.NewView(10, 20, page.HasNext, page.HasPrevious, pagination.DefaultConfig()),
	})

	assert.Contains(t, out, "Showing 5 of 100 posts")
	assert.Contains(t, out, "Page 10\n")
	assert.Contains(t, out, "post 46 · user 5")
	assert.Contains(t, out, "post 50 · user 5")
	assert.NotContains(t, out, "post 51 ")
	assert.Contains(t, out, "  line two\n")

	assert.Contains(t, out, "« ‹ Previous 1 ... 9 [10] 11 ... 20 Next › »")
	assert.Contains(t, out, "Page 10 of 20")
	assert.Contains(t, out, "go to: g <1-20>")
}

func TestRender_SuccessShortList(t *testing.T) {
	page := samplePage(1, 5, 11)
	out := render(t, State{
		Kind:       KindSuccess,
		Page:       page,
		Pagination: pagination.NewView(1, 3, page.HasNext, page.HasPrevious, pagination.DefaultConfig()),
	})

	assert.Contains(t, out, "‹ Previous [1] 2 3 Next ›")
	assert.NotContains(t, out, "«")
	assert.NotContains(t, out, "»")
	assert.NotContains(t, out, "go to")
}

func TestRender_Invalid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, State{Kind: KindSuccess}, Options{}))
	assert.Error(t, Render(&buf, State{Kind: Kind(42)}, Options{}))
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, State{Kind: KindError, Err: errors.New("boom")}, Options{}))
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	require.NoError(t, Render(&buf, State{Kind: KindError, Err: errors.New("boom")}, Options{NoColor: true}))
	assert.NotContains(t, buf.String(), "\x1b[")
}
