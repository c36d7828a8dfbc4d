package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/logger"
	"github.com/kailas-cloud/discovery/internal/usecase/recommend"
)

// ErrModuleFailed wraps a recommendation module that panicked while processing.
var ErrModuleFailed = errors.New("recommendation module failed")

// Response is one page of primary results plus recommendations keyed by module name.
type Response struct {
	Total           int
	Offset          int
	Records         []result.Record
	Recommendations map[string][]result.Heading
}

// Service runs the primary search and the configured recommendation modules.
type Service struct {
	biblio  Backend
	modules ModuleFactory
	configs []recommend.Config
}

// New creates a search service. A module name configured twice keeps its first entry.
func New(biblio Backend, modules ModuleFactory, configs []recommend.Config) *Service {
	seen := make(map[string]struct{}, len(configs))
	cs := make([]recommend.Config, 0, len(configs))
	for _, c := range configs {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		cs = append(cs, c)
	}
	return &Service{biblio: biblio, modules: modules, configs: cs}
}

// Search runs req against the bibliographic index, then runs every recommendation
// module. Module failures never fail the search.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	log := logger.FromContext(ctx)
	modules := s.initModules(req, log)

	coll, err := s.biblio.Search(ctx, req.Query(), req.Offset(), req.Limit(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	return Response{
		Total:           coll.Total,
		Offset:          coll.Offset,
		Records:         coll.Records,
		Recommendations: s.processModules(ctx, req, modules, log),
	}, nil
}

func (s *Service) initModules(req *request.Request, log *zap.Logger) []recommend.Module {
	if s.modules == nil {
		return nil
	}
	modules := make([]recommend.Module, 0, len(s.configs))
	for _, c := range s.configs {
		m, err := s.modules.New(c)
		if err != nil {
			log.Warn("Skipping recommendation module", zap.String("module", c.Name), zap.Error(err))
			continue
		}
		m.Init(req)
		modules = append(modules, m)
	}
	return modules
}

// processModules runs modules concurrently; each owns its state. A module that
// panics is left out of the result and does not cancel the others.
func (s *Service) processModules(
	ctx context.Context, req *request.Request, modules []recommend.Module, log *zap.Logger,
) map[string][]result.Heading {
	out := make(map[string][]result.Heading, len(modules))
	var mu sync.Mutex

	var g errgroup.Group
	for _, m := range modules {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s panicked: %v", ErrModuleFailed, m.Name(), r)
				}
			}()
			m.Process(ctx, req)
			mu.Lock()
			out[m.Name()] = m.Results()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Recommendation module failed", zap.Error(err))
	}
	return out
}
