package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/handler/http/response"
	"golang.org/x/time/rate"
)

const (
	// cleanupInterval is how often idle limiters are swept
	cleanupInterval = 5 * time.Minute
	// limiterTTL is how long a client may stay idle before its limiter is dropped
	limiterTTL = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client address
type RateLimiter struct {
	mu                sync.Mutex
	limiters          map[string]*limiterEntry
	requestsPerMinute int
	burst             int
	stopCh            chan struct{}
	stopOnce          sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts a limiter allowing requestsPerMinute per client with
// the given burst. Call Stop to end the cleanup goroutine.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters:          make(map[string]*limiterEntry),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		stopCh:            make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether client may make a request now
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[client]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.requestsPerMinute)/60.0), rl.burst),
		}
		rl.limiters[client] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for client, entry := range rl.limiters {
				if now.Sub(entry.lastSeen) > limiterTTL {
					delete(rl.limiters, client)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// RateLimit rejects clients that exceed their bucket with 429
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddr(r)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requestsPerMinute))

			if !rl.Allow(client) {
				w.Header().Set("Retry-After", "1")
				slog.Warn("Rate limit exceeded", "client", client, "path", r.URL.Path)
				response.TooManyRequests(w, "Too many requests, please retry later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
