package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionRequest     = "request"
)

// Limit is a sustained rate per minute with a burst allowance.
type Limit struct {
	PerMinute int
	Burst     int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	limits   map[string]Limit
	fallback Limit
	entries  map[string]*entry
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &RateLimiter{
		limits: map[string]Limit{
			ActionSendMessage: {PerMinute: 10, Burst: 10},
		},
		fallback: Limit{PerMinute: requestsPerMinute, Burst: requestsPerMinute},
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// SetLimit overrides the limit for an action. Buckets already handed out
// keep their old limit until they are cleaned up.
func (rl *RateLimiter) SetLimit(action string, limit Limit) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.limits[action] = limit
}

// Allow consumes a token for key/action. When the bucket is empty it
// returns false and how long until the next token.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := rl.now()
	limiter := rl.limiter(key, action, now)

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) limiter(key, action string, now time.Time) *rate.Limiter {
	id := key + ":" + action

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	e, ok := rl.entries[id]
	if !ok {
		limit, found := rl.limits[action]
		if !found {
			limit = rl.fallback
		}
		perSecond := rate.Limit(float64(limit.PerMinute) / 60)
		e = &entry{limiter: rate.NewLimiter(perSecond, limit.Burst)}
		rl.entries[id] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Cleanup drops buckets that have not been used for an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for id, e := range rl.entries {
		if now.Sub(e.lastSeen) > time.Hour {
			delete(rl.entries, id)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}
