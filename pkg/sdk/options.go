package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/config"
)

// Core selects which index an option applies to.
type Core string

// Cores.
const (
	Biblio    Core = "biblio"
	Authority Core = "authority"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	index     config.IndexConfig
	biblio    config.SearchConfig
	authority config.SearchConfig
	specsDir  string
	proxyURL  string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func (c *clientConfig) search(core Core) *config.SearchConfig {
	if core == Authority {
		return &c.authority
	}
	return &c.biblio
}

// WithIndex sets the base URL of the index engine, e.g. http://localhost:8983/solr.
func WithIndex(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index.URL = url
	})
}

// WithTimeout sets the per-request index timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.index.TimeoutSec = int(d / time.Second)
	})
}

// WithHiddenFilter restricts every search on core to field:"value".
func WithHiddenFilter(core Core, field, value string) Option {
	return optionFunc(func(c *clientConfig) {
		s := c.search(core)
		if s.HiddenFilters == nil {
			s.HiddenFilters = make(map[string]string)
		}
		s.HiddenFilters[field] = value
	})
}

// WithRawHiddenFilter adds a filter query sent verbatim with every search on core.
func WithRawHiddenFilter(core Core, fq string) Option {
	return optionFunc(func(c *clientConfig) {
		s := c.search(core)
		s.RawHiddenFilters = append(s.RawHiddenFilters, fq)
	})
}

// WithHighlighting requests highlighted snippets from core.
func WithHighlighting(core Core) Option {
	return optionFunc(func(c *clientConfig) {
		c.search(core).General.Highlighting = true
	})
}

// WithSpelling enables spelling suggestions on the biblio core.
func WithSpelling(dictionaries ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.biblio.Spelling = config.SpellingConfig{Enabled: true, Dictionaries: dictionaries}
	})
}

// WithRecommendations configures the modules run with every search ("Name:settings").
func WithRecommendations(modules ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.biblio.Recommendations = append(c.biblio.Recommendations, modules...)
	})
}

// WithSpecsDir sets the directory holding searchspecs.yaml and authsearchspecs.yaml.
// Without it handler names are used as field names.
func WithSpecsDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.specsDir = dir
	})
}

// WithCache caches index responses in Redis or Valkey for ttl.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithProxy routes index requests through an HTTP proxy.
func WithProxy(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.proxyURL = url
	})
}

// WithLogger enables structured logging. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers index metrics on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
