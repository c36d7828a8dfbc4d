package solr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// SearchEvent is handed to listeners before a search is sent. Listeners may add to Params.
type SearchEvent struct {
	Core   string
	Query  query.Spec
	Params url.Values
}

// Listener observes or adjusts searches on a backend.
type Listener interface {
	PreSearch(ctx context.Context, e *SearchEvent)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, e *SearchEvent)

// PreSearch calls f.
func (f ListenerFunc) PreSearch(ctx context.Context, e *SearchEvent) { f(ctx, e) }

// Backend runs structured searches against one core.
// Configure it with the Set/Attach methods during assembly only; once shared it is
// read-only and safe for concurrent use.
type Backend struct {
	connector *Connector
	builder   *QueryBuilder
	logger    *zap.Logger
	listeners []Listener
}

// NewBackend wraps connector with a spec-less query builder and no listeners.
func NewBackend(connector *Connector) *Backend {
	return &Backend{
		connector: connector,
		builder:   NewQueryBuilder(nil),
		logger:    zap.NewNop(),
	}
}

// SetQueryBuilder replaces the query builder.
func (b *Backend) SetQueryBuilder(qb *QueryBuilder) {
	if qb != nil {
		b.builder = qb
	}
}

// SetLogger replaces the logger.
func (b *Backend) SetLogger(l *zap.Logger) {
	if l != nil {
		b.logger = l
	}
}

// Attach adds a listener, run in attach order before every search.
func (b *Backend) Attach(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Core returns the connector's core label.
func (b *Backend) Core() string { return b.connector.Core() }

// Connector returns the underlying connector.
func (b *Backend) Connector() *Connector { return b.connector }

// QueryBuilder returns the query builder.
func (b *Backend) QueryBuilder() *QueryBuilder { return b.builder }

// Listeners returns a copy of the attached listeners.
func (b *Backend) Listeners() []Listener {
	out := make([]Listener, len(b.listeners))
	copy(out, b.listeners)
	return out
}

// Ping checks the core.
func (b *Backend) Ping(ctx context.Context) error {
	return b.connector.Ping(ctx)
}

// Search translates spec, applies params (extra fq etc.) and returns one page of records.
func (b *Backend) Search(
	ctx context.Context, spec query.Spec, offset, limit int, params url.Values,
) (*result.Collection, error) {
	p := cloneValues(params)
	q, fqs := b.builder.Build(spec)
	p.Set("q", q)
	for _, fq := range fqs {
		p.Add("fq", fq)
	}
	p.Set("start", strconv.Itoa(offset))
	p.Set("rows", strconv.Itoa(limit))

	e := &SearchEvent{Core: b.Core(), Query: spec, Params: p}
	for _, l := range b.listeners {
		l.PreSearch(ctx, e)
	}

	resp, err := b.connector.Search(ctx, e.Params)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.Core(), err)
	}

	coll := resp.Collection()
	b.logger.Debug("Search complete",
		zap.String("core", b.Core()),
		zap.String("q", q),
		zap.Int("total", coll.Total),
		zap.Int("returned", len(coll.Records)),
	)
	return coll, nil
}
