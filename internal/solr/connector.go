package solr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/db"
	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/metrics"
)

// DefaultTimeout applies when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes bounds how much of an index response is read into memory.
const maxResponseBytes = 64 << 20

var cacheKeyPrefix = domain.KeyPrefix + "solr:"

// ProxyFunc selects the HTTP proxy for an outgoing request, as http.Transport.Proxy does.
type ProxyFunc func(*http.Request) (*url.URL, error)

// Cache stores raw select responses. Misses are reported as db.ErrKeyNotFound.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ConnectorConfig holds everything a connector is built from.
type ConnectorConfig struct {
	URL      string // core endpoint, e.g. http://host:8983/solr/authority
	Core     string // label for logs and metrics
	Timeout  time.Duration
	Defaults url.Values // sent unless the request sets the same parameter
	Appends  url.Values // added to every request
	Logger   *zap.Logger
	Proxy    ProxyFunc
	Cache    Cache
	CacheTTL time.Duration

	// HTTPClient replaces the client built from Timeout and Proxy.
	HTTPClient *http.Client
}

// Connector issues requests to one core of the index engine.
// It holds no per-request state and is safe for concurrent use.
type Connector struct {
	url      string
	core     string
	timeout  time.Duration
	defaults url.Values
	appends  url.Values
	logger   *zap.Logger
	proxy    ProxyFunc
	cache    Cache
	cacheTTL time.Duration
	client   *http.Client
}

// NewConnector validates cfg and creates a connector. Values are copied.
func NewConnector(cfg ConnectorConfig) (*Connector, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse index url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("index url must be an absolute http(s) url, got %q", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	core := cfg.Core
	if core == "" {
		core = u.Path[strings.LastIndex(u.Path, "/")+1:]
	}

	client := cfg.HTTPClient
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.Proxy != nil {
			transport.Proxy = cfg.Proxy
		}
		client = &http.Client{Timeout: timeout, Transport: transport}
	}

	return &Connector{
		url:      strings.TrimRight(cfg.URL, "/"),
		core:     core,
		timeout:  timeout,
		defaults: cloneValues(cfg.Defaults),
		appends:  cloneValues(cfg.Appends),
		logger:   logger,
		proxy:    cfg.Proxy,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		client:   client,
	}, nil
}

// URL returns the core endpoint.
func (c *Connector) URL() string { return c.url }

// Core returns the core label.
func (c *Connector) Core() string { return c.core }

// Timeout returns the per-request timeout.
func (c *Connector) Timeout() time.Duration { return c.timeout }

// Defaults returns a copy of the default query parameters.
func (c *Connector) Defaults() url.Values { return cloneValues(c.defaults) }

// Appends returns a copy of the parameters appended to every query.
func (c *Connector) Appends() url.Values { return cloneValues(c.appends) }

// HasProxy reports whether a proxy func is attached.
func (c *Connector) HasProxy() bool { return c.proxy != nil }

// Params returns the final parameters sent for a request carrying params.
func (c *Connector) Params(params url.Values) url.Values {
	out := cloneValues(params)
	for k, vs := range c.defaults {
		if _, ok := out[k]; !ok {
			out[k] = append([]string(nil), vs...)
		}
	}
	for k, vs := range c.appends {
		out[k] = append(out[k], vs...)
	}
	return out
}

// Search runs a select request.
func (c *Connector) Search(ctx context.Context, params url.Values) (*Response, error) {
	q := c.Params(params)

	key := ""
	if c.cache != nil && c.cacheTTL > 0 {
		key = c.cacheKey(q)
		if body, ok := c.getFromCache(ctx, key); ok {
			resp, err := decodeResponse(body)
			if err == nil {
				return resp, nil
			}
			c.logger.Warn("Failed to decode cached index response", zap.String("key", key), zap.Error(err))
		}
	}

	body, err := c.get(ctx, OpSelect, "select", q)
	if err != nil {
		return nil, err
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, &Error{Core: c.core, Op: OpSelect, Err: err}
	}

	if key != "" {
		c.putToCache(ctx, key, body)
	}
	return resp, nil
}

// Ping checks that the core answers its ping handler.
func (c *Connector) Ping(ctx context.Context) error {
	body, err := c.get(ctx, OpPing, "admin/ping", url.Values{"wt": {"json"}})
	if err != nil {
		return err
	}
	status, err := decodePingStatus(body)
	if err != nil {
		return &Error{Core: c.core, Op: OpPing, Err: err}
	}
	if status != "OK" {
		return &Error{Core: c.core, Op: OpPing, Err: fmt.Errorf("%w: %q", ErrPingFailed, status)}
	}
	return nil
}

func (c *Connector) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	endpoint := c.url + "/" + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &Error{Core: c.core, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(c.core, op, "error").Inc()
		c.logger.Warn("Index request failed",
			zap.String("core", c.core), zap.String("op", op),
			zap.Duration("latency", duration), zap.Error(err))
		return nil, &Error{Core: c.core, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.IndexRequestsTotal.WithLabelValues(c.core, op, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.IndexRequestDuration.WithLabelValues(c.core, op).Observe(duration.Seconds())
	if err != nil {
		return nil, &Error{Core: c.core, Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("Index request",
		zap.String("core", c.core),
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
		zap.String("q", q.Get("q")),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Core: c.core, Op: op, Err: newHTTPError(resp.StatusCode, body)}
	}
	return body, nil
}

func (c *Connector) cacheKey(q url.Values) string {
	h := sha256.Sum256([]byte(c.url + "/select?" + q.Encode()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *Connector) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read index cache", zap.String("key", key), zap.Error(err))
		}
		metrics.IndexCacheTotal.WithLabelValues(c.core, "miss").Inc()
		return nil, false
	}
	if len(data) == 0 {
		metrics.IndexCacheTotal.WithLabelValues(c.core, "miss").Inc()
		return nil, false
	}
	metrics.IndexCacheTotal.WithLabelValues(c.core, "hit").Inc()
	return data, true
}

func (c *Connector) putToCache(ctx context.Context, key string, body []byte) {
	if err := c.cache.SetWithTTL(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn("Failed to write index cache", zap.String("key", key), zap.Error(err))
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
