package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoredResponse_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expired entry", time.Now().Add(-1 * time.Hour), true},
		{"valid entry", time.Now().Add(1 * time.Hour), false},
		{"just expired", time.Now().Add(-1 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &StoredResponse{Expires: tt.expires}
			assert.Equal(t, tt.want, entry.IsExpired())
		})
	}
}

func TestStoredResponse_TTL(t *testing.T) {
	t.Run("five minutes remaining", func(t *testing.T) {
		entry := &StoredResponse{Expires: time.Now().Add(5 * time.Minute)}
		ttl := entry.TTL()
		assert.Greater(t, ttl, 4*time.Minute+59*time.Second)
		assert.LessOrEqual(t, ttl, 5*time.Minute)
	})

	t.Run("already expired", func(t *testing.T) {
		entry := &StoredResponse{Expires: time.Now().Add(-1 * time.Hour)}
		assert.Equal(t, time.Duration(0), entry.TTL())
	})
}

func TestStoredResponse_Age(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&StoredResponse{}).Age())

	entry := &StoredResponse{StoredAt: time.Now().Add(-2 * time.Minute)}
	assert.GreaterOrEqual(t, entry.Age(), 2*time.Minute)
}

func TestStoredResponse_HasValidators(t *testing.T) {
	assert.False(t, (&StoredResponse{Body: []byte("x")}).HasValidators())
	assert.True(t, (&StoredResponse{ETag: `W/"abc"`}).HasValidators())
	assert.True(t, (&StoredResponse{LastModified: time.Now()}).HasValidators())
}
