package http

import (
	"sync"
	"time"
)

// rateLimiter caps mutating requests per client IP. Counters reset once
// a client stays quiet for a full window; a background sweep drops
// clients that have gone idle entirely.
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	clients  map[string]*clientWindow
	stopOnce sync.Once
	stop     chan struct{}
}

type clientWindow struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropIdle()
		case <-rl.stop:
			return
		}
	}
}

// dropIdle removes clients that have not been seen for ten windows.
func (rl *rateLimiter) dropIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * rl.window)
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// shutdown stops the sweep goroutine. Safe to call more than once.
func (rl *rateLimiter) shutdown() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

// allow reports whether one more request from clientIP fits its window.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.lastSeen) > rl.window {
		rl.clients[clientIP] = &clientWindow{lastSeen: now, count: 1}
		return true
	}

	c.count++
	c.lastSeen = now
	return c.count <= rl.limit
}
