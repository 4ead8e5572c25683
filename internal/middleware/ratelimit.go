package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AnshRaj112/saferplace/pkg/clientip"
	"golang.org/x/time/rate"
)

const (
	globalRateLimitRPS   = 10
	globalRateLimitBurst = 30

	loginRateLimitEvery = 5 * time.Second
	loginRateLimitBurst = 3

	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

var loginPaths = map[string]bool{
	"/api/auth/login": true,
	"/api/users":      true,
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// keyedLimiter hands out one token bucket per client.
type keyedLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func newKeyedLimiter(limit rate.Limit, burst int) *keyedLimiter {
	return &keyedLimiter{limit: limit, burst: burst, entries: make(map[string]*limiterEntry)}
}

func (k *keyedLimiter) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (k *keyedLimiter) sweep(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, e := range k.entries {
		if now.Sub(e.lastUse) > limiterTTL {
			delete(k.entries, key)
		}
	}
}

// RateLimits holds the per-client limiters for the gateway.
type RateLimits struct {
	global *keyedLimiter
	login  *keyedLimiter
}

func NewRateLimits() *RateLimits {
	return &RateLimits{
		global: newKeyedLimiter(rate.Limit(globalRateLimitRPS), globalRateLimitBurst),
		login:  newKeyedLimiter(rate.Every(loginRateLimitEvery), loginRateLimitBurst),
	}
}

// Run drops idle limiters until ctx is done.
func (l *RateLimits) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.global.sweep(now)
			l.login.sweep(now)
		}
	}
}

// Global limits each client to 10 req/s, burst 30. Returns 429 when exceeded.
func (l *RateLimits) Global(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := l.global.get(clientip.RealClientIP(r))
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, `{"success":false,"message":"Too many requests. Please slow down."}`)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}

// Login applies a stricter limit to credential routes only. Use after Global.
func (l *RateLimits) Login(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !loginPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if !l.login.get(clientip.RealClientIP(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, `{"success":false,"message":"Too many login attempts. Please try again later."}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
