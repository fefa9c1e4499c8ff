package playstore

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/JakeFAU/gplay-api/internal/metrics"
)

// DefaultBaseURL is the public Google Play origin.
const DefaultBaseURL = "https://play.google.com"

// Upstream request kinds used as metric labels.
const (
	kindPage  = "page"
	kindBatch = "batchexecute"
)

// Config controls how the client talks to Google Play.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxBodyBytes      int
	ThrottleRPS       float64
	ThrottleBurst     int
	DetailConcurrency int
	DefaultLang       string
	DefaultCountry    string
}

// Client implements every scraping operation against Google Play.
// It is safe for concurrent use; each upstream request runs on its own
// collector clone.
type Client struct {
	cfg           Config
	baseCollector *colly.Collector
	limiter       *rate.Limiter
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// upstreamRequest describes one HTTP exchange with Google Play.
type upstreamRequest struct {
	method string
	path   string
	query  url.Values
	body   []byte
	kind   string
}

// upstreamResponse is what a completed exchange produced.
type upstreamResponse struct {
	status int
	body   []byte
}

// New builds a Client. Zero-valued config fields fall back to defaults.
func New(cfg Config, logger *zap.Logger) *Client {
	metrics.Init()
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = withDefaults(cfg)

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// The same page is legitimately fetched many times over the process lifetime.
	c.AllowURLRevisit = true
	c.MaxBodySize = cfg.MaxBodyBytes
	c.UserAgent = cfg.UserAgent
	c.SetRequestTimeout(cfg.Timeout)
	c.WithTransport(newHTTPTransport())

	limit := rate.Inf
	if cfg.ThrottleRPS > 0 {
		limit = rate.Limit(cfg.ThrottleRPS)
	}

	return &Client{
		cfg:           cfg,
		baseCollector: c,
		limiter:       rate.NewLimiter(limit, cfg.ThrottleBurst),
		logger:        logger.Named("playstore"),
	}
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; gplay-api/1.0)"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 16 << 20
	}
	if cfg.ThrottleBurst <= 0 {
		cfg.ThrottleBurst = 1
	}
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 4
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "en"
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "us"
	}
	return cfg
}

// fetch performs one upstream exchange and returns the body of a 2xx response.
// Failures are *UpstreamError; a 404 matches ErrNotFound.
func (c *Client) fetch(ctx context.Context, req upstreamRequest) (upstreamResponse, error) {
	if err := c.throttle(ctx); err != nil {
		return upstreamResponse{}, err
	}

	target := c.cfg.BaseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	collector := c.baseCollector.Clone()
	// Bound the exchange itself to ctx, not only the wait for it.
	collector.Context = ctx

	hdr := http.Header{}
	hdr.Set("Accept-Language", "en-US,en;q=0.9")
	var body io.Reader
	if req.body != nil {
		hdr.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
		body = bytes.NewReader(req.body)
	}

	start := time.Now()
	result, err := c.runCollector(ctx, collector, func() error {
		return collector.Request(req.method, target, body, nil, hdr)
	})
	metrics.ObserveUpstream(req.kind, result.status)
	c.logger.Debug("upstream request finished",
		zap.String("kind", req.kind),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", result.status),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return result, &UpstreamError{Method: req.method, Path: req.path, Status: result.status, Err: err}
	}
	return result, nil
}

func (c *Client) configureCollectorHooks(hooks collectorHooks, result *upstreamResponse, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		result.status = r.StatusCode
		result.body = append([]byte(nil), r.Body...)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.status = r.StatusCode
		}
		*fetchErr = err
	})
}

// collectorOutcome is what the collector goroutine hands back once visit returns.
type collectorOutcome struct {
	resp     upstreamResponse
	visitErr error
	fetchErr error
}

// runCollector runs visit on its own goroutine, which owns the response the
// hooks capture until it is sent on done. A canceled ctx returns a zero
// response; the goroutine then drains on its own once the transport sees
// the same cancellation.
func (c *Client) runCollector(ctx context.Context, hooks collectorHooks, visit func() error) (upstreamResponse, error) {
	done := make(chan collectorOutcome, 1)
	go func() {
		var out collectorOutcome
		c.configureCollectorHooks(hooks, &out.resp, &out.fetchErr)
		out.visitErr = visit()
		done <- out
	}()

	select {
	case <-ctx.Done():
		return upstreamResponse{}, eris.Wrap(ctx.Err(), "upstream request canceled")
	case out := <-done:
		if err := ctx.Err(); err != nil {
			return upstreamResponse{}, eris.Wrap(err, "upstream request canceled")
		}
		if out.visitErr != nil {
			return out.resp, eris.Wrap(out.visitErr, "upstream request failed")
		}
		if out.fetchErr != nil {
			return out.resp, eris.Wrap(out.fetchErr, "upstream response failed")
		}
		return out.resp, nil
	}
}

// throttle blocks until the shared token bucket admits another request.
func (c *Client) throttle(ctx context.Context) error {
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "upstream throttle wait")
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveThrottleDelay(waited)
	}
	return nil
}

// localeQuery builds the hl/gl query pair every page request carries.
func localeQuery(opts Locale) url.Values {
	q := url.Values{}
	q.Set("hl", opts.Lang)
	q.Set("gl", opts.Country)
	return q
}

// absoluteURL resolves a store-relative href against the public origin so
// results point at Google Play even when the client targets a mirror.
func absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	base, _ := url.Parse(DefaultBaseURL)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
