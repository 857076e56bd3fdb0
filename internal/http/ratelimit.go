package http

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP over a one minute window. A nil
// or disabled limiter passes everything through.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	perMinute int
	stop      chan struct{}
	stopOnce  sync.Once
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

// NewRateLimiter builds a limiter allowing perMinute requests per client.
// A non-positive limit disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		clients:   make(map[string]*clientWindow),
		perMinute: perMinute,
		stop:      make(chan struct{}),
	}
	if perMinute > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Allow reports whether another request from the client fits in the current
// window.
func (rl *RateLimiter) Allow(clientIP string) bool {
	if rl.perMinute <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		rl.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= rl.perMinute
}

// Wrap applies the limiter in front of next. Rejected requests get a 429
// with a Retry-After hint.
func (rl *RateLimiter) Wrap(next http.Handler) http.Handler {
	if rl == nil || rl.perMinute <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientAddr(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Status:  http.StatusTooManyRequests,
				Message: "rate limit exceeded",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.dropStaleClients()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) dropStaleClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
