package api

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-IP request limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration // How often idle IPs are evicted
}

// DefaultRateLimitConfig is generous enough for one player hammering the
// input endpoint and the frame poller at the same time.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter throttles HTTP requests per client IP. Limiters for idle IPs
// are evicted by a janitor goroutine so the map stays bounded.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	config  RateLimitConfig

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter creates the limiter and starts its janitor.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	rl := &IPRateLimiter{
		clients:  make(map[string]*clientLimiter),
		config:   cfg,
		stopChan: make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Stop terminates the janitor goroutine.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

// Allow reports whether a request from ip fits within its budget.
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// Middleware rejects over-budget requests with 429 before they reach a
// handler.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *IPRateLimiter) janitor() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.CleanupInterval * 2)
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if c.lastSeen.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// GetClientIP resolves the client address, honoring X-Forwarded-For and
// X-Real-IP when a proxy sits in front. Those headers are spoofable without a
// trusted proxy, which is acceptable here since they only scope rate limits.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WebSocketRateLimiter caps concurrent WebSocket connections per IP.
type WebSocketRateLimiter struct {
	mu       sync.Mutex
	active   map[string]int
	maxPerIP int
}

func NewWebSocketRateLimiter(maxPerIP int) *WebSocketRateLimiter {
	return &WebSocketRateLimiter{
		active:   make(map[string]int),
		maxPerIP: maxPerIP,
	}
}

// Allow reserves a connection slot for ip. Every successful Allow must be
// paired with a Release when the connection closes.
func (wrl *WebSocketRateLimiter) Allow(ip string) bool {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()

	if wrl.active[ip] >= wrl.maxPerIP {
		return false
	}
	wrl.active[ip]++
	return true
}

// Release frees a slot previously reserved with Allow.
func (wrl *WebSocketRateLimiter) Release(ip string) {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()

	if n := wrl.active[ip]; n > 1 {
		wrl.active[ip] = n - 1
	} else {
		delete(wrl.active, ip)
	}
}

// IsAllowedOrigin accepts browser origins from the local machine only, which
// is where the game's frontend runs. The origin is parsed rather than
// prefix-matched so a host like localhost.evil.example cannot slip through.
func IsAllowedOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
