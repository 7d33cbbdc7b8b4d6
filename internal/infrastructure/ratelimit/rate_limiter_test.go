package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(60)
	rl.SetLimit("test", Limit{PerMinute: 60, Burst: 2})
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	ok, _ := rl.Allow("u1", "test")
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", "test")
	assert.True(t, ok)

	ok, wait := rl.Allow("u1", "test")
	assert.False(t, ok)
	assert.InDelta(t, time.Second, wait, float64(10*time.Millisecond))

	// Other keys have their own bucket.
	ok, _ = rl.Allow("u2", "test")
	assert.True(t, ok)

	fixed = fixed.Add(time.Second)
	ok, _ = rl.Allow("u1", "test")
	assert.True(t, ok)
}

func TestSendMessageDefaultLimit(t *testing.T) {
	rl := NewRateLimiter(0)
	fixed := time.Now()
	rl.now = func() time.Time { return fixed }

	for i := 0; i < 10; i++ {
		ok, _ := rl.Allow("u1", ActionSendMessage)
		assert.True(t, ok, "message %d", i)
	}
	ok, wait := rl.Allow("u1", ActionSendMessage)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(30)
	fixed := time.Now()
	rl.now = func() time.Time { return fixed }

	rl.Allow("u1", ActionRequest)
	assert.Len(t, rl.entries, 1)

	fixed = fixed.Add(2 * time.Hour)
	rl.Cleanup()
	assert.Empty(t, rl.entries)
}
