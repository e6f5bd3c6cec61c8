package cache

import (
	"net/http"
	"time"
)

// StoredResponse is an upstream response as kept by a Store.
// It carries enough of the original response to replay it and to revalidate it.
type StoredResponse struct {
	Body       []byte      `json:"body"`
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`

	// Validators sent back as If-None-Match / If-Modified-Since.
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`

	// Expires ends the freshness window; a 304 moves it forward.
	Expires  time.Time `json:"expires"`
	StoredAt time.Time `json:"stored_at"`
}

// IsExpired reports whether the freshness window has ended.
func (r *StoredResponse) IsExpired() bool {
	return !time.Now().Before(r.Expires)
}

// TTL is the remaining freshness, never negative.
func (r *StoredResponse) TTL() time.Duration {
	return max(time.Until(r.Expires), 0)
}

// Age returns how long ago the response was stored, or 0 when unknown.
func (r *StoredResponse) Age() time.Duration {
	if r.StoredAt.IsZero() {
		return 0
	}
	return time.Since(r.StoredAt)
}

// HasValidators reports whether a conditional request can revalidate r.
func (r *StoredResponse) HasValidators() bool {
	return r.ETag != "" || !r.LastModified.IsZero()
}
