// Package testutil provides testing utilities for post-pager.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// PostsPath is the collection path served by MockUpstream.
const PostsPath = "/posts"

// Post mirrors the upstream JSON shape without importing the posts package.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockUpstream is a configurable stand-in for the upstream posts API.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	posts      []Post
	etag       string
	failures   []MockResponse
	delay      time.Duration
	gate       chan struct{}
	requests   int
	notModRsps int
	lastHeader http.Header
}

// NewMockUpstream creates a mock upstream serving count generated posts.
func NewMockUpstream(count int) *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		posts:    GeneratePosts(count),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests++
		mock.lastHeader = r.Header.Clone()
		gate := mock.gate
		delay := mock.delay
		mock.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if delay > 0 {
			time.Sleep(delay)
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		if r.URL.Path != PostsPath {
			http.NotFound(w, r)
			return
		}
		mock.postsHandler(w, r)
	}))

	return mock
}

// GeneratePosts returns count posts with IDs 1..count.
func GeneratePosts(count int) []Post {
	posts := make([]Post, count)
	for i := range posts {
		id := i + 1
		posts[i] = Post{
			ID:     id,
			UserID: (i / 10) + 1,
			Title:  fmt.Sprintf("post %d", id),
			Body:   fmt.Sprintf("body of post %d", id),
		}
	}
	return posts
}

// URL returns the mock server URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.mu.Lock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
	m.mu.Unlock()
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockUpstream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = 0
	m.notModRsps = 0
	m.lastHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUpstream) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetPosts replaces the collection.
func (m *MockUpstream) SetPosts(posts []Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = posts
}

// EnableETag makes the collection carry the given ETag and answer matching
// If-None-Match requests with 304.
func (m *MockUpstream) EnableETag(etag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.etag = etag
}

// FailNext queues responses returned, in order, before the collection is served again.
func (m *MockUpstream) FailNext(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, responses...)
}

// SetDelay delays every response.
func (m *MockUpstream) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Hold blocks every request until Release is called.
func (m *MockUpstream) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate == nil {
		m.gate = make(chan struct{})
	}
}

// Release unblocks requests held by Hold.
func (m *MockUpstream) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

// RequestCount returns the number of requests made to the server.
func (m *MockUpstream) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests
}

// NotModifiedCount returns the number of 304 responses sent.
func (m *MockUpstream) NotModifiedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notModRsps
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockUpstream) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

func (m *MockUpstream) postsHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	if len(m.failures) > 0 {
		resp := m.failures[0]
		m.failures = m.failures[1:]
		m.mu.Unlock()
		writeResponse(w, resp)
		return
	}
	etag := m.etag
	posts := m.posts
	if etag != "" && r.Header.Get("If-None-Match") == etag {
		m.notModRsps++
		m.mu.Unlock()
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "max-age=43200")
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(posts)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewMalformedResponse creates a 200 response whose body is not a post array.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"posts": "nope"`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}
