// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package jellyfin implements catalog.Client against the Jellyfin HTTP API.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/mediabrowse/internal/cache"
	"github.com/ManuGH/mediabrowse/internal/catalog"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/metrics"
	"github.com/ManuGH/mediabrowse/internal/resilience"
	"github.com/ManuGH/mediabrowse/internal/telemetry"
)

// TokenHeader carries the API key on every request.
const TokenHeader = "X-Emby-Token"

const (
	opGetItem      = "get_item"
	opGetItems     = "get_items"
	opPlaybackInfo = "playback_info"
	opPing         = "ping"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultRetries          = 2
	defaultBackoff          = 200 * time.Millisecond
	defaultMaxBackoff       = 2 * time.Second
	defaultRateLimit        = 20
	defaultRateLimitBurst   = 40
	defaultBreakerThreshold = 5
	defaultBreakerReset     = 30 * time.Second
	maxErrorBody            = 512
)

// Options configures the client.
type Options struct {
	BaseURL          string
	APIKey           string
	UserID           string
	Timeout          time.Duration
	MaxRetries       int
	Backoff          time.Duration
	MaxBackoff       time.Duration
	RateLimit        rate.Limit
	RateLimitBurst   int
	BreakerThreshold int
	BreakerReset     time.Duration
	UserAgent        string

	// Cache holds GetItem responses for CacheTTL. Nil or a zero TTL disables it.
	Cache    cache.Cache
	CacheTTL time.Duration

	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to one Jellyfin server on behalf of one user.
type Client struct {
	base       string
	apiKey     string
	userID     string
	userAgent  string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ catalog.Client = (*Client)(nil)

// New validates opts and builds a client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("jellyfin: invalid base URL %q", opts.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("jellyfin: unsupported scheme %q", u.Scheme)
	}
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, errors.New("jellyfin: user id is required")
	}

	opts = normalizeOptions(opts)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: opts.Timeout,
				TLSHandshakeTimeout:   5 * time.Second,
			},
		}
	}

	logger := xglog.WithComponent("jellyfin")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		base:       base,
		apiKey:     opts.APIKey,
		userID:     opts.UserID,
		userAgent:  opts.UserAgent,
		http:       httpClient,
		limiter:    rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
		breaker:    resilience.NewCircuitBreaker("jellyfin", opts.BreakerThreshold, opts.BreakerReset, resilience.WithFailurePredicate(countsAsFailure)),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter only
	}, nil
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if opts.BreakerThreshold <= 0 {
		opts.BreakerThreshold = defaultBreakerThreshold
	}
	if opts.BreakerReset <= 0 {
		opts.BreakerReset = defaultBreakerReset
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "mediabrowse"
	}
	return opts
}

// ServerURL returns the base URL without trailing slash.
func (c *Client) ServerURL() string { return c.base }

// AuthToken returns the API key.
func (c *Client) AuthToken() string { return c.apiKey }

// ArtworkURL returns the primary image URL for id.
func (c *Client) ArtworkURL(id string) string {
	return c.base + "/Items/" + url.PathEscape(id) + "/Images/Primary"
}

// GetItem fetches a single item for the configured user.
func (c *Client) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	key := "item:" + id
	if c.cacheEnabled() {
		if raw, ok := c.cache.Get(ctx, key); ok {
			var item catalog.Item
			if err := json.Unmarshal(raw, &item); err == nil {
				metrics.RecordCatalogCache(true)
				return item, nil
			}
			c.cache.Delete(ctx, key)
		}
		metrics.RecordCatalogCache(false)
	}

	var item catalog.Item
	path := "/Users/" + url.PathEscape(c.userID) + "/Items/" + url.PathEscape(id)
	if err := c.call(ctx, opGetItem, http.MethodGet, path, nil, nil, &item, telemetry.CatalogAttributes(opGetItem, id, "")); err != nil {
		return catalog.Item{}, err
	}

	if c.cacheEnabled() {
		if raw, err := json.Marshal(item); err == nil {
			c.cache.Set(ctx, key, raw, c.cacheTTL)
		}
	}
	return item, nil
}

type itemsResponse struct {
	Items            []catalog.Item `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
}

// GetItems runs q against the user's item listing. The zero query lists the
// user's top-level libraries.
func (c *Client) GetItems(ctx context.Context, q catalog.Query) ([]catalog.Item, error) {
	params := url.Values{}
	if q.ParentID != "" {
		params.Set("ParentId", q.ParentID)
	}
	if q.ID != "" {
		params.Set("Ids", q.ID)
	}
	if q.SortBy != "" {
		params.Set("SortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		params.Set("SortOrder", string(q.SortOrder))
	}

	var res itemsResponse
	path := "/Users/" + url.PathEscape(c.userID) + "/Items"
	if err := c.call(ctx, opGetItems, http.MethodGet, path, params, nil, &res, telemetry.CatalogAttributes(opGetItems, q.ID, q.ParentID)); err != nil {
		return nil, err
	}
	if res.Items == nil {
		return []catalog.Item{}, nil
	}
	return res.Items, nil
}

type playbackInfoRequest struct {
	UserID        string                  `json:"UserId"`
	DeviceProfile catalog.PlaybackProfile `json:"DeviceProfile"`
	IsPlayback    bool                    `json:"IsPlayback"`
}

// GetPlaybackInfo negotiates media sources for id. A JSON null body yields a
// nil result.
func (c *Client) GetPlaybackInfo(ctx context.Context, id string, profile catalog.PlaybackProfile) (*catalog.PlaybackInfo, error) {
	body, err := json.Marshal(playbackInfoRequest{UserID: c.userID, DeviceProfile: profile, IsPlayback: true})
	if err != nil {
		return nil, fmt.Errorf("jellyfin: encode playback request: %w", err)
	}

	params := url.Values{}
	params.Set("UserId", c.userID)

	var info *catalog.PlaybackInfo
	path := "/Items/" + url.PathEscape(id) + "/PlaybackInfo"
	if err := c.call(ctx, opPlaybackInfo, http.MethodPost, path, params, body, &info, telemetry.CatalogAttributes(opPlaybackInfo, id, "")); err != nil {
		return nil, err
	}
	return info, nil
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, opPing, http.MethodGet, "/System/Ping", nil, nil, nil, telemetry.CatalogAttributes(opPing, "", ""))
}

func (c *Client) cacheEnabled() bool {
	return c.cache != nil && c.cacheTTL > 0
}

// call runs one logical request through the breaker and records its outcome.
func (c *Client) call(ctx context.Context, op, method, path string, params url.Values, body []byte, out any, attrs []attribute.KeyValue) error {
	ctx, span := telemetry.StartSpan(ctx, "jellyfin."+op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
	start := time.Now()

	err := c.breaker.Execute(func() error {
		return c.do(ctx, op, method, path, params, body, out)
	})
	result := resultLabel(err)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		err = &RequestError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	metrics.RecordCatalogRequest(op, result, time.Since(start))
	span.SetAttributes(attribute.String(telemetry.CatalogResultKey, result))
	telemetry.EndSpan(span, err)

	if err != nil {
		c.logger.Debug().
			Err(err).
			Str(xglog.FieldOperation, op).
			Str(xglog.FieldPath, path).
			Str(xglog.FieldRequestID, xglog.RequestIDFromContext(ctx)).
			Msg("catalog request failed")
	}
	return err
}

// do performs the HTTP exchange with retries on transport errors and 5xx.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body []byte, out any) error {
	rawURL := c.base + path
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	maxAttempts := c.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &RequestError{Sentinel: sentinelForTransport(err), Operation: op, Err: err}
		}

		err := c.attempt(ctx, op, method, rawURL, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxAttempts || !retryable(err) || ctx.Err() != nil {
			break
		}
		if err := sleepWithContext(ctx, c.backoffFor(attempt-1)); err != nil {
			return &RequestError{Sentinel: sentinelForTransport(err), Operation: op, Err: err}
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, op, method, rawURL string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &RequestError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	c.applyHeaders(req, body != nil)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Sentinel: sentinelForTransport(err), Operation: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestError{
			Sentinel:  sentinelForStatus(resp.StatusCode),
			Operation: op,
			Status:    resp.StatusCode,
			Body:      strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Sentinel: ErrBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(TokenHeader, c.apiKey)
	}
}

func retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrUpstream)
}

func (c *Client) backoffFor(attempt int) time.Duration {
	wait := c.backoff * time.Duration(1<<attempt)
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	jitter := time.Duration(c.randInt63n(int64(wait/5 + 1)))
	return wait + jitter
}

func (c *Client) randInt63n(n int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.Int63n(n)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
