package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/boycotts/internal/cache"
	"github.com/ppiankov/boycotts/internal/model"
	"github.com/ppiankov/boycotts/internal/util"
	"github.com/rs/zerolog/log"
)

// errRobotsDisallowed is wrapped in a NetworkError when robots.txt enforcement blocks a fetch
var errRobotsDisallowed = errors.New("disallowed by robots.txt")

// Fetcher fetches the boycotts page
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	cache       cache.Cache
	bypassCache bool
	cacheTTL    time.Duration

	robots        *util.RobotsChecker
	enforceRobots bool
	limiter       *util.HostLimiter
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    util.NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// UseCache serves pages from c when fresh; bypass skips reads but still stores.
// A zero ttl leaves each cache layer on its own default.
func (f *Fetcher) UseCache(c cache.Cache, ttl time.Duration, bypass bool) {
	f.cache = c
	f.cacheTTL = ttl
	f.bypassCache = bypass
}

// UseRobots consults robots.txt before fetching; enforce turns a disallow into an error
func (f *Fetcher) UseRobots(enforce bool) {
	f.robots = util.NewRobotsChecker(f.userAgent, f.httpClient)
	f.enforceRobots = enforce
}

// FetchResult contains the fetched page and metadata
type FetchResult struct {
	HTML []byte
	Meta model.FetchMeta
}

// cachedPage is the cache payload for one fetched page
type cachedPage struct {
	HTML []byte          `json:"html"`
	Meta model.FetchMeta `json:"meta"`
}

// Fetch retrieves the page at rawURL. Failures are returned as *NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.CacheKey(rawURL)
	if f.cache != nil && !f.bypassCache {
		if result, ok := f.fromCache(key); ok {
			log.Debug().Str("url", rawURL).Msg("serving page from cache")
			return result, nil
		}
	}

	if err := f.checkRobots(ctx, rawURL); err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("rate limit: %w", err)}
	}

	result, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.toCache(key, result); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("failed to cache page")
		}
	}

	return result, nil
}

// get performs the GET itself
func (f *Fetcher) get(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, truncated, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if truncated {
		log.Warn().Str("url", rawURL).Int64("max_bytes", f.maxBytes).
			Msg("page exceeds max body size; records past the cut are lost")
	}

	return &FetchResult{
		HTML: body,
		Meta: model.FetchMeta{
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			LastModified: resp.Header.Get("Last-Modified"),
			ETag:         resp.Header.Get("ETag"),
			FinalURL:     resp.Request.URL.String(),
			Truncated:    truncated,
		},
	}, nil
}

// readLimited reads at most limit bytes and reports whether more were available.
// A non-positive limit reads everything.
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	if limit <= 0 {
		body, err := io.ReadAll(r)
		return body, false, err
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

// checkRobots applies robots.txt rules and any crawl delay
func (f *Fetcher) checkRobots(ctx context.Context, rawURL string) error {
	if f.robots == nil {
		return nil
	}

	// The robots.txt request counts against the host's rate
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return &NetworkError{URL: rawURL, Err: fmt.Errorf("rate limit: %w", err)}
	}

	allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return &NetworkError{URL: rawURL, Err: err}
	}
	f.applyCrawlDelay(ctx, rawURL, delay)

	if !allowed {
		if f.enforceRobots {
			return &NetworkError{URL: rawURL, Err: errRobotsDisallowed}
		}
		log.Warn().Str("url", rawURL).Str("agent", util.NormalizeUserAgent(f.userAgent)).
			Msg("robots.txt disallows this page; fetching anyway")
	}
	return nil
}

// applyCrawlDelay slows the host as robots.txt asks, unless waiting out the
// delay would overrun the context deadline
func (f *Fetcher) applyCrawlDelay(ctx context.Context, rawURL string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	if deadline, ok := ctx.Deadline(); ok && delay >= time.Until(deadline) {
		log.Warn().Str("url", rawURL).Dur("crawl_delay", delay).
			Msg("robots.txt crawl delay exceeds the remaining timeout; not applying it")
		return
	}
	f.limiter.SetCrawlDelay(rawURL, delay)
}

func (f *Fetcher) fromCache(key string) (*FetchResult, bool) {
	data, found := f.cache.Get(key)
	if !found {
		return nil, false
	}

	var page cachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		_ = f.cache.Delete(key)
		return nil, false
	}

	page.Meta.FromCache = true
	return &FetchResult{HTML: page.HTML, Meta: page.Meta}, true
}

func (f *Fetcher) toCache(key string, result *FetchResult) error {
	data, err := json.Marshal(cachedPage{HTML: result.HTML, Meta: result.Meta})
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}
	return f.cache.Set(key, data, f.cacheTTL)
}
