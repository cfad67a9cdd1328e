package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/sc2bot/internal/util"
	"github.com/ppiankov/sc2bot/internal/worker"
)

// ErrNotFound is returned when the wiki has no page for the requested term
var ErrNotFound = errors.New("page not found")

// ErrDisallowed is returned when robots.txt forbids fetching the page
var ErrDisallowed = errors.New("disallowed by robots.txt")

const maxFetchAttempts = 3

// fetchSleepFunc is swapped out by tests to skip retry backoff
var fetchSleepFunc = time.Sleep

// StatusError reports a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
}

// Fetcher retrieves wiki pages over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	throttled  sync.Map // hosts whose robots.txt crawl delay has been applied
}

// NewFetcher creates a Fetcher. Requests go through the given proxies, or the
// environment's when both are empty.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy string) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxySelector(httpProxy, httpsProxy).Proxy

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// WithLimiter throttles fetches per host
func (f *Fetcher) WithLimiter(limiter *worker.Limiter) *Fetcher {
	f.limiter = limiter
	return f
}

// WithRobots enables robots.txt checks using the fetcher's HTTP client
func (f *Fetcher) WithRobots() *Fetcher {
	f.robots = util.NewRobotsChecker(f.httpClient, f.userAgent)
	return f
}

// FetchResult contains the fetched HTML and where it ended up
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string
}

// Fetch retrieves one page. A 404 is reported as ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if err := f.admit(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, transport errors) with backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			log.Debug().Err(lastErr).Str("url", rawURL).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("retrying fetch")
			fetchSleepFunc(backoff)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		if !isRetryableFetchError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxFetchAttempts, lastErr)
}

// admit applies robots.txt and the per-host rate limit before a request
func (f *Fetcher) admit(ctx context.Context, rawURL string) error {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if !allowed {
			return fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}

	if f.limiter == nil {
		return nil
	}
	host, err := worker.HostKey(rawURL)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if crawlDelay > 0 {
		f.applyCrawlDelay(host, crawlDelay)
	}
	if err := f.limiter.Wait(ctx, host); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// applyCrawlDelay slows host down to one request per delay, once, unless the
// configured rate is already slower
func (f *Fetcher) applyCrawlDelay(host string, delay time.Duration) {
	if _, seen := f.throttled.LoadOrStore(host, delay); seen {
		return
	}
	rps := 1 / delay.Seconds()
	if rps >= f.limiter.DefaultRate() {
		return
	}
	log.Debug().Str("host", host).Dur("crawl_delay", delay).Msg("applying robots.txt crawl delay")
	f.limiter.SetRate(host, rps, 1)
}

func isRetryableFetchError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	return strings.HasPrefix(err.Error(), "fetch: ")
}
