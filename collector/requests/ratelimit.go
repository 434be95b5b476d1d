package requests

import (
	"sync"
	"time"
)

// Default pause after a 429 without a Retry-After header.
const defaultBackoff = 10 * time.Second

// PauseFunc is told about every rate limit pause before it happens,
// so the run ledger and console can announce the stall.
type PauseFunc func(reason string, wait time.Duration)

// RateLimiter tracks the request count over a fixed window and the spacing
// between consecutive requests. It only computes delays and sleeps on the
// calling goroutine, so the sequential pipeline never has more than one
// request in flight.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	minInterval time.Duration

	count       int
	windowStart time.Time
	lastRequest time.Time

	// Injectable for tests with a simulated clock.
	now   func() time.Time
	sleep func(time.Duration)

	onPause PauseFunc

	mu sync.Mutex
}

// Create a instance of the rate limiter.
func CreateRateLimiter(maxRequests int, window time.Duration, minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		minInterval: minInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// NotifyPause registers fn to be called before every rate limit pause.
// The per-request spacing is not announced, only the long stalls.
func (r *RateLimiter) NotifyPause(fn PauseFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onPause = fn
}

// Compute how long the caller must wait before the next request is safe.
// Doesn't mutate any state.
func (r *RateLimiter) waitDuration(now time.Time) time.Duration {
	var wait time.Duration

	// Window exhausted: wait until windowStart + window.
	if r.count >= r.maxRequests {
		if elapsed := now.Sub(r.windowStart); elapsed < r.window {
			wait = r.window - elapsed
		}
	}

	// Every request is spaced by at least minInterval, window state aside.
	if !r.lastRequest.IsZero() {
		if since := now.Sub(r.lastRequest); since < r.minInterval {
			if spacing := r.minInterval - since; spacing > wait {
				wait = spacing
			}
		}
	}

	return wait
}

// Wait blocks until the next request is allowed, then records it.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.windowStart.IsZero() {
		r.windowStart = now
	}

	if wait := r.waitDuration(now); wait > 0 {
		// Only a exhausted window is worth announcing; the short
		// inter-request spacing would flood the ledger.
		if r.count >= r.maxRequests && r.onPause != nil {
			r.onPause("rate limit reached", wait)
		}
		r.sleep(wait)
		now = r.now()
	}

	// Reset the window once it has elapsed.
	if r.count >= r.maxRequests && now.Sub(r.windowStart) >= r.window {
		r.count = 0
		r.windowStart = now
	}

	r.count++
	r.lastRequest = now
}

// Backoff pauses after a server-signaled rate limit rejection.
// Honors the server-indicated duration when present, else a default.
// The window restarts afterwards, since the server already told us we overshot.
func (r *RateLimiter) Backoff(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}

	if r.onPause != nil {
		r.onPause("rate limit exceeded", retryAfter)
	}
	r.sleep(retryAfter)
	r.count = 0
	r.windowStart = r.now()
}
