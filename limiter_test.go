package folio

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRateLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	key := "user-10"

	assert.True(t, limiter.Allow(key), "first event")
	assert.True(t, limiter.Allow(key), "second event")
	assert.False(t, limiter.Allow(key), "third event should be blocked")
	assert.False(t, limiter.Check(key))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	key := "user-20"

	assert.True(t, limiter.Allow(key))
	assert.False(t, limiter.Allow(key))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, limiter.Allow(key), "event after window should be allowed")
}

func TestRateLimiterIsPerKey(t *testing.T) {
	limiter := NewRateLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("user-30"))
	assert.True(t, limiter.Allow("user-31"), "second key is independent")
	assert.False(t, limiter.Allow("user-30"))
}

func TestRateLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewRateLimiter(1, time.Second)
	defer limiter.Stop()

	assert.True(t, limiter.Check("user-40"))
	assert.True(t, limiter.Check("user-40"))
	assert.True(t, limiter.Allow("user-40"))
	assert.False(t, limiter.Check("user-40"))
}

func TestRateLimiterStopTwice(t *testing.T) {
	limiter := NewRateLimiter(1, time.Second)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestRateLimiterConcurrentAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	defer limiter.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("user-50") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), allowed.Load())
}

func TestRateLimiterRelease(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("user-60"))
	assert.False(t, limiter.Allow("user-60"))
	limiter.Release("user-60")
	assert.True(t, limiter.Allow("user-60"), "released slot is available again")

	assert.NotPanics(t, func() { limiter.Release("unknown") })
}
