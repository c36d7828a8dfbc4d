// Package recommend holds recommendation modules that run alongside the primary search.
package recommend

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/mode"
	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/metrics"
)

// AuthorityName is the registry name of the authority module.
const AuthorityName = "AuthorityRecommend"

// AuthorityLimit is the number of authority records examined per search.
const AuthorityLimit = 20

// Outcome labels for RecommendationsTotal.
const (
	outcomeSkipped = "skipped"
	outcomeEmpty   = "empty"
	outcomeFound   = "found"
	outcomeError   = "error"
)

// AuthorityRecommend suggests canonical authority headings for a search term:
// records whose heading variants match the term but whose main heading does not.
// One instance serves one request; it is not safe for concurrent use.
type AuthorityRecommend struct {
	searcher AuthoritySearcher
	filters  []filter.HiddenFilter
	logger   *zap.Logger

	lookfor string
	results *result.HeadingSet
}

// NewAuthorityRecommend creates the module from a colon-delimited settings string of
// field/expression pairs, e.g. "source:Local:type:Personal". An unpaired trailing
// token and pairs with an empty side are ignored.
func NewAuthorityRecommend(settings string, searcher AuthoritySearcher, logger *zap.Logger) *AuthorityRecommend {
	if logger == nil {
		logger = zap.NewNop()
	}
	filters, dropped := filter.ParseSettings(settings)
	if len(dropped) > 0 {
		logger.Warn("Ignoring invalid recommendation settings",
			zap.String("module", AuthorityName),
			zap.String("settings", settings),
			zap.Strings("dropped", dropped),
		)
	}
	return NewAuthorityRecommendWithFilters(filters, searcher, logger)
}

// NewAuthorityRecommendWithFilters creates the module with already parsed filters.
func NewAuthorityRecommendWithFilters(
	filters []filter.HiddenFilter, searcher AuthoritySearcher, logger *zap.Logger,
) *AuthorityRecommend {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := make([]filter.HiddenFilter, len(filters))
	copy(fs, filters)
	return &AuthorityRecommend{
		searcher: searcher,
		filters:  fs,
		logger:   logger,
		results:  result.NewHeadingSet(),
	}
}

// Name returns AuthorityName.
func (a *AuthorityRecommend) Name() string { return AuthorityName }

// Filters returns a copy of the hidden filters added to every authority search.
func (a *AuthorityRecommend) Filters() []filter.HiddenFilter {
	out := make([]filter.HiddenFilter, len(a.filters))
	copy(out, a.filters)
	return out
}

// Init captures the user's search term.
func (a *AuthorityRecommend) Init(params Params) {
	a.lookfor = params.Get("lookfor")
}

// Lookfor returns the captured search term.
func (a *AuthorityRecommend) Lookfor() string { return a.lookfor }

// Process runs the cross-reference search. Advanced searches and empty terms are
// skipped. Index failures are logged and leave the results empty.
func (a *AuthorityRecommend) Process(ctx context.Context, primary Results) {
	if primary.SearchType() == string(mode.Advanced) || strings.TrimSpace(a.lookfor) == "" {
		metrics.RecommendationsTotal.WithLabelValues(AuthorityName, outcomeSkipped).Inc()
		return
	}

	fqs := filter.Strings(a.filters)
	params := url.Values{}
	for _, fq := range fqs {
		params.Add("fq", fq)
	}

	coll, err := a.searcher.Search(ctx, query.NewCrossReference(a.lookfor), 0, AuthorityLimit, params)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(AuthorityName, outcomeError).Inc()
		a.logger.Warn("Authority recommendation search failed",
			zap.String("lookfor", a.lookfor), zap.Error(err))
		return
	}

	for i := range coll.Records {
		rec := &coll.Records[i]
		a.results.Add(result.Heading{ID: rec.ID(), Heading: rec.Breadcrumb()})
	}

	outcome := outcomeFound
	if a.results.Len() == 0 {
		outcome = outcomeEmpty
	}
	metrics.RecommendationsTotal.WithLabelValues(AuthorityName, outcome).Inc()
	a.logger.Debug("Authority recommendations",
		zap.String("lookfor", a.lookfor),
		zap.Strings("filters", fqs),
		zap.Int("matched", len(coll.Records)),
		zap.Int("headings", a.results.Len()),
	)
}

// Results returns the distinct headings found, in index order. Never nil.
func (a *AuthorityRecommend) Results() []result.Heading {
	return a.results.Items()
}
