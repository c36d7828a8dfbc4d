package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/backend"
	dbRedis "github.com/kailas-cloud/discovery/internal/db/redis"
	"github.com/kailas-cloud/discovery/internal/domain/search/mode"
	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/metrics"
	"github.com/kailas-cloud/discovery/internal/solr"
	"github.com/kailas-cloud/discovery/internal/specs"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	"github.com/kailas-cloud/discovery/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/discovery/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the discovery SDK entry point. Safe for concurrent use.
type Client struct {
	store     *dbRedis.Store
	biblio    *solr.Backend
	authority *solr.Backend
	registry  *recommend.Registry
	searchSvc *searchuc.Service
	healthSvc *healthuc.Service
	logger    *zap.Logger
}

// New creates a Client. WithIndex is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.index.URL == "" {
		return nil, errors.New("discovery: index url required (use WithIndex)")
	}
	if cfg.metricsReg != nil {
		if err := metrics.RegisterIndexMetricsOn(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("discovery: %w", err)
		}
	}

	c := &Client{logger: cfg.logger}
	deps := backend.Deps{Index: cfg.index, Logger: cfg.logger}

	if cfg.proxyURL != "" {
		u, err := url.Parse(cfg.proxyURL)
		if err != nil {
			return nil, fmt.Errorf("discovery: parse proxy url: %w", err)
		}
		deps.Proxy = http.ProxyURL(u)
	}

	if cfg.specsDir != "" {
		reader, err := specs.NewReader(cfg.specsDir, specs.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("discovery: %w", err)
		}
		deps.Specs = reader
	}

	if len(cfg.cacheAddrs) > 0 {
		store, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		c.store = store
		deps.Cache = store
		deps.CacheTTL = cfg.cacheTTL
	}

	if err := c.wire(deps, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: create cache store: %w", err)
	}
	if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("discovery: cache not ready: %w", err)
	}
	return s, nil
}

func (c *Client) wire(deps backend.Deps, cfg *clientConfig) error {
	var err error

	biblioDeps := deps
	biblioDeps.Search = cfg.biblio
	if c.biblio, err = backend.Assemble(biblioDeps, backend.Biblio()); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	authorityDeps := deps
	authorityDeps.Search = cfg.authority
	if c.authority, err = backend.Assemble(authorityDeps, backend.Authority()); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	c.registry = recommend.NewRegistry(recommend.Deps{Authority: c.authority, Logger: c.logger})
	modules := make([]recommend.Config, 0, len(cfg.biblio.Recommendations))
	for _, s := range cfg.biblio.Recommendations {
		mc, err := recommend.ParseConfig(s)
		if err != nil {
			return fmt.Errorf("discovery: %w", err)
		}
		if !c.registry.Has(mc.Name) {
			return fmt.Errorf("discovery: %w: %s", ErrUnknownModule, mc.Name)
		}
		modules = append(modules, mc)
	}
	c.searchSvc = searchuc.New(c.biblio, c.registry, modules)

	var cache healthuc.Pinger
	if c.store != nil {
		cache = c.store
	}
	c.healthSvc = healthuc.New(map[string]healthuc.Pinger{
		c.biblio.Core():    c.biblio,
		c.authority.Core(): c.authority,
	}, cache, c.logger)
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks that both cores answer.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.biblio.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := c.authority.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search starts a catalog search for lookfor.
func (c *Client) Search(lookfor string) *SearchBuilder {
	return &SearchBuilder{client: c, lookfor: lookfor}
}

// Recommend returns authority headings for term outside of a catalog search.
// settings takes the same "field:value" pairs as the AuthorityRecommend module.
// Unlike the module run by Search, index failures are returned.
func (c *Client) Recommend(ctx context.Context, term, settings string) ([]Heading, error) {
	probe := &errorProbe{inner: c.authority}
	m := recommend.NewAuthorityRecommend(settings, probe, c.logger)
	m.Init(url.Values{"lookfor": {term}})
	m.Process(ctx, searchType(mode.Basic))
	if probe.err != nil {
		return nil, fmt.Errorf("recommend: %w", probe.err)
	}
	return headingsFromDomain(m.Results()), nil
}

type searchType mode.Mode

func (t searchType) SearchType() string { return string(t) }

// errorProbe records the error the module swallows.
type errorProbe struct {
	inner recommend.AuthoritySearcher
	err   error
}

func (p *errorProbe) Search(
	ctx context.Context, spec query.Spec, offset, limit int, params url.Values,
) (*result.Collection, error) {
	coll, err := p.inner.Search(ctx, spec, offset, limit, params)
	p.err = err
	return coll, err
}
