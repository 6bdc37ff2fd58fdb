package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Rate is tokens added per second.
	Rate float64
	// Burst is the bucket size. Defaults to Rate rounded up.
	Burst int
}

func (c RateLimiterConfig) normalized() RateLimiterConfig {
	if c.Rate <= 0 {
		c.Rate = 1
	}
	if c.Burst <= 0 {
		c.Burst = int(c.Rate + 0.999)
	}
	return c
}

// RateLimiter is a token bucket safe for concurrent use.
type RateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

func newRateLimiter(cfg RateLimiterConfig, now func() time.Time) *RateLimiter {
	return &RateLimiter{cfg: cfg, now: now, tokens: float64(cfg.Burst), last: now()}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	t := rl.now()
	rl.tokens += t.Sub(rl.last).Seconds() * rl.cfg.Rate
	rl.last = t
	if limit := float64(rl.cfg.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// full reports whether the bucket has refilled completely.
func (rl *RateLimiter) full(at time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens+at.Sub(rl.last).Seconds()*rl.cfg.Rate >= float64(rl.cfg.Burst)
}

// KeyedRateLimiter keeps one bucket per key, typically the client address.
// Buckets that have refilled completely are dropped by Sweep.
type KeyedRateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*RateLimiter
}

// NewKeyedRateLimiter creates an empty keyed limiter.
func NewKeyedRateLimiter(cfg RateLimiterConfig) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		cfg:     cfg.normalized(),
		now:     time.Now,
		buckets: make(map[string]*RateLimiter),
	}
}

// Allow takes a token from key's bucket.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = newRateLimiter(k.cfg, k.now)
		k.buckets[key] = b
	}
	k.mu.Unlock()
	return b.Allow()
}

// Sweep forgets buckets that are full again and returns how many remain.
func (k *KeyedRateLimiter) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	t := k.now()
	for key, b := range k.buckets {
		if b.full(t) {
			delete(k.buckets, key)
		}
	}
	return len(k.buckets)
}
