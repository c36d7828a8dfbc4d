package search

import (
	"context"
	"net/url"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/usecase/recommend"
)

// Backend runs the primary search against the bibliographic index.
type Backend interface {
	Search(ctx context.Context, spec query.Spec, offset, limit int, params url.Values) (*result.Collection, error)
}

// ModuleFactory builds a fresh recommendation module per request.
type ModuleFactory interface {
	New(cfg recommend.Config) (recommend.Module, error)
}
