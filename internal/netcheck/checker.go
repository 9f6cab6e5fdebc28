// Package netcheck probes tracked URLs over HTTP. Public operations
// never return errors: every failure path degrades to a boolean plus a
// fixed message. A short-lived result cache absorbs repeated checks and
// a single bounded worker pool, sized at construction, serves all
// concurrent fan-outs.
package netcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/metrics"
)

type Options struct {
	Timeout      time.Duration // per-probe timeout
	CacheTTL     time.Duration // result cache lifetime
	Concurrency  int           // worker pool size for CheckMany
	MaxRetries   int           // extra attempts on 429/5xx
	RetryBackoff time.Duration // initial backoff, doubled per retry
	UserAgent    string
}

func (o *Options) fillDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.Concurrency < 1 {
		o.Concurrency = 3
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "DomainTracker/1.0"
	}
}

type Checker struct {
	log    *zap.Logger
	client *http.Client
	cache  *resultCache
	sem    chan struct{}
	opts   Options
}

func New(opts Options, log *zap.Logger) *Checker {
	opts.fillDefaults()
	c := &Checker{
		log:   log,
		cache: newResultCache(opts.CacheTTL),
		sem:   make(chan struct{}, opts.Concurrency),
		opts:  opts,
	}
	c.client = &http.Client{
		Timeout: opts.Timeout,
		Transport: &retryTransport{
			maxRetries: opts.MaxRetries,
			backoff:    opts.RetryBackoff,
		},
		CheckRedirect: recordRedirects,
	}
	return c
}

// SimpleResult is the outcome of a cached HEAD probe.
type SimpleResult struct {
	Accessible bool
	Message    string
	FinalURL   string // empty on transport failure or cache hit
}

// CheckSimple probes a URL with a HEAD request, following redirects.
// Status codes below 400 count as accessible. The boolean outcome is
// always written to the cache, failures included, so repeated checks
// inside the TTL window short-circuit.
func (c *Checker) CheckSimple(ctx context.Context, rawURL string) SimpleResult {
	if cached, ok := c.cache.get(rawURL); ok {
		c.log.Debug("check_cache_hit", zap.String("url", rawURL), zap.Bool("accessible", cached))
		metrics.CacheHits.Inc()
		return SimpleResult{Accessible: cached, Message: MsgCachedResult}
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		c.cache.put(rawURL, false)
		return SimpleResult{Accessible: false, Message: msgRequestPrefix + err.Error()}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		msg := classifyError(err)
		c.log.Warn("check_failed", zap.String("url", rawURL), zap.String("reason", msg))
		c.cache.put(rawURL, false)
		metrics.CheckStatus.WithLabelValues("down").Inc()
		metrics.CheckDuration.WithLabelValues("down").Observe(elapsed)
		return SimpleResult{Accessible: false, Message: msg}
	}
	defer resp.Body.Close()

	accessible := resp.StatusCode < 400
	c.cache.put(rawURL, accessible)

	outcome := "down"
	if accessible {
		outcome = "up"
	}
	metrics.CheckStatus.WithLabelValues(outcome).Inc()
	metrics.CheckDuration.WithLabelValues(outcome).Observe(elapsed)

	c.log.Debug("check_done",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Bool("accessible", accessible),
	)
	return SimpleResult{
		Accessible: accessible,
		Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		FinalURL:   resp.Request.URL.String(),
	}
}

// DetailedResult is the outcome of a full GET probe.
type DetailedResult struct {
	URL           string        `json:"url"`
	Accessible    bool          `json:"is_accessible"`
	StatusCode    int           `json:"status_code,omitempty"`
	FinalURL      string        `json:"final_url,omitempty"`
	RedirectChain []string      `json:"redirect_chain,omitempty"`
	ResponseTime  time.Duration `json:"response_time"`
	ContentType   string        `json:"content_type,omitempty"`
	Server        string        `json:"server,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

// CheckDetailed issues a GET and captures status, final URL, the full
// redirect chain, timing and identifying headers. Failures populate
// ErrorMessage; nothing is raised to the caller.
func (c *Checker) CheckDetailed(ctx context.Context, rawURL string) DetailedResult {
	result := DetailedResult{URL: rawURL}

	rec := &redirectRecorder{}
	ctx = withRedirectRecorder(ctx, rec)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.ErrorMessage = msgRequestPrefix + err.Error()
		return result
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.ErrorMessage = classifyError(err)
		c.log.Warn("detailed_check_failed", zap.String("url", rawURL), zap.String("reason", result.ErrorMessage))
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.FinalURL = resp.Request.URL.String()
	result.Accessible = resp.StatusCode < 400
	result.RedirectChain = rec.chain(result.FinalURL)
	result.ContentType = resp.Header.Get("Content-Type")
	result.Server = resp.Header.Get("Server")

	c.log.Debug("detailed_check_done",
		zap.String("url", rawURL),
		zap.Int("status", result.StatusCode),
		zap.Duration("elapsed", result.ResponseTime),
		zap.Int("redirects", len(result.RedirectChain)),
	)
	return result
}

// ManyResult is one entry of a CheckMany fan-out.
type ManyResult struct {
	Accessible bool
	Message    string
}

// CheckMany probes every entity through the checker's worker pool.
// Entities are independent: a panic in one worker becomes a failed
// entry and never aborts the rest. The returned map, keyed by URL, has
// an entry for every input.
func (c *Checker) CheckMany(ctx context.Context, entities []domain.Entity) map[string]ManyResult {
	results := make(map[string]ManyResult, len(entities))
	if len(entities) == 0 {
		return results
	}

	c.log.Info("check_many_start", zap.Int("count", len(entities)))

	type outcome struct {
		url string
		res ManyResult
	}
	out := make(chan outcome, len(entities))

	for _, e := range entities {
		u := e.URL
		c.sem <- struct{}{}
		go func() {
			defer func() { <-c.sem }()
			defer func() {
				if r := recover(); r != nil {
					out <- outcome{url: u, res: ManyResult{
						Accessible: false,
						Message:    msgCheckExcPrefix + fmt.Sprint(r),
					}}
				}
			}()
			res := c.CheckSimple(ctx, u)
			out <- outcome{url: u, res: ManyResult{Accessible: res.Accessible, Message: res.Message}}
		}()
	}

	for range entities {
		o := <-out
		results[o.url] = o.res
	}

	up := 0
	for _, r := range results {
		if r.Accessible {
			up++
		}
	}
	c.log.Info("check_many_done", zap.Int("up", up), zap.Int("total", len(results)))
	return results
}

// FindRedirected derives one scheme://host URL per hop of the redirect
// chain, deduplicated and excluding the input, plus the final resolved
// origin when the probe landed somewhere else.
func (c *Checker) FindRedirected(ctx context.Context, rawURL string) []string {
	detailed := c.CheckDetailed(ctx, rawURL)

	var origins []string
	seen := make(map[string]bool)
	for _, hop := range detailed.RedirectChain {
		origin := schemeHost(hop)
		if origin == "" || origin == rawURL || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	if detailed.FinalURL != "" && detailed.FinalURL != rawURL {
		if origin := schemeHost(detailed.FinalURL); origin != "" && !seen[origin] {
			origins = append(origins, origin)
		}
	}
	return origins
}

// PurgeCache drops expired cache entries and returns how many were removed.
func (c *Checker) PurgeCache() int {
	n := c.cache.purgeExpired()
	if n > 0 {
		c.log.Debug("check_cache_purged", zap.Int("expired", n))
	}
	return n
}

func schemeHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// classifyError maps a transport failure to its fixed message.
func classifyError(err error) string {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return MsgTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return MsgConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return MsgConnection
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return msgRequestPrefix + ue.Err.Error()
	}
	return msgUnknownPrefix + err.Error()
}
