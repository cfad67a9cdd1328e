package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key (a wiki host, a chat user).
// Buckets idle for longer than the configured expiry are evicted.
type Limiter struct {
	buckets      *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per key with the given burst
func NewLimiter(requestsPerSecond float64, burst int, idle time.Duration) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	return &Limiter{
		buckets:      gocache.New(idle, idle),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// NewCooldown creates a limiter allowing one event per key every interval
func NewCooldown(interval time.Duration) *Limiter {
	if interval <= 0 {
		return NewLimiter(float64(rate.Inf), 1, 0)
	}
	return NewLimiter(float64(rate.Every(interval)), 1, 10*interval)
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

// Allow reports whether key may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// DefaultRate returns the requests per second granted to keys without a custom rate
func (l *Limiter) DefaultRate() float64 {
	return float64(l.defaultRate)
}

// SetRate replaces the bucket for key with a custom rate
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets.SetDefault(key, rate.NewLimiter(rate.Limit(requestsPerSecond), burst))
}

// bucket returns the limiter for key, refreshing its idle expiry
func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.buckets.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.buckets.SetDefault(key, limiter)
	return limiter
}

// HostKey returns the host of rawURL for per-host limiting
func HostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
