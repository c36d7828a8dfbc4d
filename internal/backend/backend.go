// Package backend assembles search backends from configuration at startup.
package backend

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/config"
	"github.com/kailas-cloud/discovery/internal/solr"
	"github.com/kailas-cloud/discovery/internal/specs"
)

// Highlight markers wrapped around matched terms in highlighted snippets.
const (
	HighlightStart = "{{{{START_HILITE}}}}"
	HighlightEnd   = "{{{{END_HILITE}}}}"
)

// SpecLoader loads a named search spec file.
type SpecLoader interface {
	Get(name string) (specs.Set, error)
}

// ListenerFunc attaches listeners to a freshly built backend.
type ListenerFunc func(b *solr.Backend, cfg config.SearchConfig, logger *zap.Logger)

// Deps are the shared services every backend is assembled from.
// Nil Logger, Proxy, Cache and Specs disable the corresponding feature.
type Deps struct {
	Index    config.IndexConfig
	Search   config.SearchConfig
	Logger   *zap.Logger
	Proxy    solr.ProxyFunc
	Cache    solr.Cache
	CacheTTL time.Duration
	Specs    SpecLoader
}

// Options select what a backend searches.
type Options struct {
	Core      string
	SpecFile  string
	Listeners ListenerFunc
}

// Assemble builds a connector, wraps it in a backend and attaches listeners.
// It has no side effects beyond reading spec files, so repeated calls yield
// equivalent backends.
func Assemble(deps Deps, opts Options) (*solr.Backend, error) {
	if opts.Core == "" {
		return nil, errors.New("assemble backend: core is required")
	}
	connector, err := CreateConnector(deps, opts.Core)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", opts.Core, err)
	}
	b, err := CreateBackend(deps, opts, connector)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", opts.Core, err)
	}
	CreateListeners(b, deps, opts)

	logger(deps).Info("Search backend assembled",
		zap.String("core", opts.Core),
		zap.String("url", connector.URL()),
		zap.Duration("timeout", connector.Timeout()),
		zap.Int("listeners", len(b.Listeners())),
	)
	return b, nil
}

// CreateConnector builds the connector for core from the index and search settings.
func CreateConnector(deps Deps, core string) (*solr.Connector, error) {
	endpoint := strings.TrimRight(deps.Index.URL, "/") + "/" + core

	timeout := solr.DefaultTimeout
	if deps.Index.TimeoutSec > 0 {
		timeout = time.Duration(deps.Index.TimeoutSec) * time.Second
	}

	return solr.NewConnector(solr.ConnectorConfig{
		URL:      endpoint,
		Core:     core,
		Timeout:  timeout,
		Defaults: Defaults(),
		Appends:  Appends(deps.Search),
		Logger:   deps.Logger,
		Proxy:    deps.Proxy,
		Cache:    deps.Cache,
		CacheTTL: deps.CacheTTL,
	})
}

// Defaults are the query parameters every request carries unless it sets them itself.
func Defaults() url.Values {
	return url.Values{
		"wt":      {"json"},
		"json.nl": {"arrarr"},
		"fl":      {"*,score"},
	}
}

// phraseEscaper escapes a value for use inside a quoted phrase.
var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Appends derives the parameters appended to every request from cfg.
func Appends(cfg config.SearchConfig) url.Values {
	out := url.Values{}
	if cfg.General.Highlighting || cfg.General.Snippets {
		out.Set("hl", "true")
		out.Set("hl.fl", "*")
		out.Set("hl.simple.pre", HighlightStart)
		out.Set("hl.simple.post", HighlightEnd)
	}

	fields := make([]string, 0, len(cfg.HiddenFilters))
	for field := range cfg.HiddenFilters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		out.Add("fq", field+`:"`+phraseEscaper.Replace(cfg.HiddenFilters[field])+`"`)
	}
	for _, raw := range cfg.RawHiddenFilters {
		out.Add("fq", raw)
	}
	return out
}

// CreateBackend wraps connector with a query builder driven by opts.SpecFile.
// A missing spec file leaves the builder spec-less; an unreadable one is an error.
func CreateBackend(deps Deps, opts Options, connector *solr.Connector) (*solr.Backend, error) {
	b := solr.NewBackend(connector)

	var set specs.Set
	if deps.Specs != nil && opts.SpecFile != "" {
		loaded, err := deps.Specs.Get(opts.SpecFile)
		switch {
		case errors.Is(err, specs.ErrNotFound):
			logger(deps).Warn("Search specs not found, using handler names as fields",
				zap.String("core", opts.Core), zap.String("file", opts.SpecFile))
		case err != nil:
			return nil, fmt.Errorf("load search specs: %w", err)
		default:
			set = loaded
		}
	}

	b.SetQueryBuilder(solr.NewQueryBuilder(set))
	if deps.Logger != nil {
		b.SetLogger(deps.Logger)
	}
	return b, nil
}

// CreateListeners runs the listener hook, if any.
func CreateListeners(b *solr.Backend, deps Deps, opts Options) {
	if opts.Listeners != nil {
		opts.Listeners(b, deps.Search, logger(deps))
	}
}

func logger(deps Deps) *zap.Logger {
	if deps.Logger == nil {
		return zap.NewNop()
	}
	return deps.Logger
}
