package middleware

import (
	"net/http"
	"sync"
	"time"

	"contesthub/config"
	"contesthub/metrics"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client token bucket
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int
	burst    int
	interval time.Duration
	now      func() time.Time

	idleTTL   time.Duration
	lastSweep time.Time
}

type visitor struct {
	tokens      int
	lastUpdated time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     cfg.Rate,
		burst:    cfg.Burst,
		interval: interval,
		now:      time.Now,
	}
	// A bucket idle this long has refilled to burst and equals a new one.
	if cfg.Rate > 0 {
		intervals := (cfg.Burst + cfg.Rate - 1) / cfg.Rate
		if intervals < 1 {
			intervals = 1
		}
		rl.idleTTL = time.Duration(intervals) * interval
	}
	return rl
}

// Allow spends one token of key's bucket, refilling it for every full interval elapsed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{tokens: rl.burst, lastUpdated: now}
		rl.visitors[key] = v
	}

	if refill := int(now.Sub(v.lastUpdated) / rl.interval); refill > 0 {
		v.tokens += refill * rl.rate
		if v.tokens > rl.burst {
			v.tokens = rl.burst
		}
		v.lastUpdated = v.lastUpdated.Add(time.Duration(refill) * rl.interval)
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// sweep drops idle buckets, at most once per idleTTL
func (rl *RateLimiter) sweep(now time.Time) {
	if rl.idleTTL == 0 {
		return
	}
	if rl.lastSweep.IsZero() {
		rl.lastSweep = now
		return
	}
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	for key, v := range rl.visitors {
		if now.Sub(v.lastUpdated) >= rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.RateLimiterRejections.Inc()
			response.Abort(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
