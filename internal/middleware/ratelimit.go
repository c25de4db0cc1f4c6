package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is one caller's token bucket plus the last time it was asked.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nanos
}

// RateLimiter keeps one token bucket per tenant+client pair.
type RateLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows bursts of capacity requests refilled at refillRate
// per second. It starts a janitor goroutine; call Stop to end it.
func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*clientLimiter),
		limit:   rate.Limit(refillRate),
		burst:   capacity,
		done:    make(chan struct{}),
	}
	go rl.cleanup(5*time.Minute, 10*time.Minute)
	return rl
}

func (rl *RateLimiter) getBucket(key string) *clientLimiter {
	rl.mu.RLock()
	bucket, exists := rl.buckets[key]
	rl.mu.RUnlock()
	if exists {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if bucket, exists := rl.buckets[key]; exists {
		return bucket
	}
	bucket = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	rl.buckets[key] = bucket
	return bucket
}

// Allow spends one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.allowAt(key, time.Now())
}

func (rl *RateLimiter) allowAt(key string, now time.Time) bool {
	bucket := rl.getBucket(key)
	bucket.lastUsed.Store(now.UnixNano())
	return bucket.limiter.AllowN(now, 1)
}

// RetryAfter is how long a rejected caller should wait for the next token.
func (rl *RateLimiter) RetryAfter() time.Duration {
	if rl.limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(rl.limit))
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanup(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now(), idle)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time, idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, bucket := range rl.buckets {
		if now.Sub(time.Unix(0, bucket.lastUsed.Load())) > idle {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit rejects requests once the caller's bucket is empty.
// The key is the authenticated tenant plus the client host.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(limiter.RetryAfter().Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetTenantFromContext(r.Context()) + ":" + clientHost(r.RemoteAddr)
			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
