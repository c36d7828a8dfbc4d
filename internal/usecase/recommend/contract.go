package recommend

import (
	"context"
	"net/url"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// AuthoritySearcher runs structured searches against the authority index.
type AuthoritySearcher interface {
	Search(ctx context.Context, spec query.Spec, offset, limit int, params url.Values) (*result.Collection, error)
}

// Params exposes the raw parameters of the user's request.
type Params interface {
	Get(name string) string
}

// Results exposes what a module needs to know about the primary search.
type Results interface {
	SearchType() string
}
