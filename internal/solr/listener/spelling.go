// Package listener holds search listeners attached to backends at assembly.
package listener

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/solr"
)

// Spelling asks the index for spelling suggestions on basic searches.
type Spelling struct {
	dictionaries []string
	logger       *zap.Logger
}

// NewSpelling creates a spelling listener using dictionaries, in order.
// With no dictionaries the core's default dictionary is used.
func NewSpelling(dictionaries []string, logger *zap.Logger) *Spelling {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Spelling{
		dictionaries: append([]string(nil), dictionaries...),
		logger:       logger,
	}
}

// Dictionaries returns a copy of the configured dictionaries.
func (s *Spelling) Dictionaries() []string {
	return append([]string(nil), s.dictionaries...)
}

// PreSearch enables spellcheck unless the request already decided.
func (s *Spelling) PreSearch(_ context.Context, e *solr.SearchEvent) {
	if e.Params.Has("spellcheck") {
		return
	}
	// Suggestions only make sense for a single typed term.
	if _, ok := e.Query.(query.Query); !ok {
		return
	}
	e.Params.Set("spellcheck", "true")
	for _, d := range s.dictionaries {
		e.Params.Add("spellcheck.dictionary", d)
	}
	s.logger.Debug("Spellcheck enabled", zap.String("core", e.Core), zap.Strings("dictionaries", s.dictionaries))
}
