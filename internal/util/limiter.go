package util

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits requests per hostname
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing reqPerSec requests per host
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	if reqPerSec <= 0 {
		reqPerSec = float64(rate.Inf)
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(reqPerSec),
		burst:    burst,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.rate, hl.burst)
	hl.limiters[host] = lim
	return lim
}

// Wait blocks until a request to the URL's host is allowed
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	return hl.limiterFor(hostOf(rawURL)).Wait(ctx)
}

// SetCrawlDelay slows a host to one request per delay, as robots.txt asks.
// Only ever slows down: a delay shorter than the current interval is ignored.
func (hl *HostLimiter) SetCrawlDelay(rawURL string, delay time.Duration) {
	if delay <= 0 {
		return
	}

	lim := hl.limiterFor(hostOf(rawURL))
	limit := rate.Every(delay)
	if limit < lim.Limit() {
		lim.SetLimit(limit)
		lim.SetBurst(1)
	}
}

// hostOf returns the URL host, or "_" when it has none
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "_"
	}
	return u.Host
}
