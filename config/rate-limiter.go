package config

import "time"

// RateLimitConfig configures the per-IP token bucket on the API
type RateLimitConfig struct {
	Rate     int           // Tokens refilled per interval
	Burst    int           // Bucket capacity
	Interval time.Duration // Refill interval
}

var DefaultRateLimitConfig = RateLimitConfig{
	Rate:     600,
	Burst:    120,
	Interval: time.Minute,
}
