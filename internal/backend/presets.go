package backend

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/config"
	"github.com/kailas-cloud/discovery/internal/solr"
	"github.com/kailas-cloud/discovery/internal/solr/listener"
)

// Core names and spec files of the two indexes the service searches.
const (
	BiblioCore        = "biblio"
	BiblioSpecFile    = "searchspecs.yaml"
	AuthorityCore     = "authority"
	AuthoritySpecFile = "authsearchspecs.yaml"
)

// Biblio returns the options for the bibliographic catalog.
func Biblio() Options {
	return Options{Core: BiblioCore, SpecFile: BiblioSpecFile, Listeners: attachSpelling}
}

// Authority returns the options for the authority index.
func Authority() Options {
	return Options{Core: AuthorityCore, SpecFile: AuthoritySpecFile}
}

func attachSpelling(b *solr.Backend, cfg config.SearchConfig, logger *zap.Logger) {
	if !cfg.Spelling.Enabled {
		return
	}
	b.Attach(listener.NewSpelling(cfg.Spelling.Dictionaries, logger))
}
