package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/backend"
	"github.com/kailas-cloud/discovery/internal/config"
	dbRedis "github.com/kailas-cloud/discovery/internal/db/redis"
	logpkg "github.com/kailas-cloud/discovery/internal/logger"
	"github.com/kailas-cloud/discovery/internal/metrics"
	"github.com/kailas-cloud/discovery/internal/solr"
	"github.com/kailas-cloud/discovery/internal/specs"
	chiTransport "github.com/kailas-cloud/discovery/internal/transport/chi"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	"github.com/kailas-cloud/discovery/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/discovery/internal/usecase/search"
	"github.com/kailas-cloud/discovery/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting discovery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_url", cfg.Index.URL),
		zap.Bool("cache", cfg.Cache.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterIndexMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Optional response cache
	var cache solr.Cache
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
		cache = store
		cachePinger = store
	}

	specReader, err := specs.NewReader(cfg.Specs.Dir, cfg.Specs.CacheSize)
	if err != nil {
		logger.Fatal("Failed to create spec reader", zap.Error(err))
	}

	proxy, err := proxyFunc(cfg.Proxy)
	if err != nil {
		logger.Fatal("Invalid proxy", zap.Error(err))
	}

	// Assemble one backend per core
	deps := backend.Deps{
		Index:    cfg.Index,
		Logger:   logger,
		Proxy:    proxy,
		Cache:    cache,
		CacheTTL: time.Duration(cfg.Cache.TTLSec) * time.Second,
		Specs:    specReader,
	}

	biblioDeps := deps
	biblioDeps.Search = cfg.Searches
	biblio, err := backend.Assemble(biblioDeps, backend.Biblio())
	if err != nil {
		logger.Fatal("Failed to assemble biblio backend", zap.Error(err))
	}

	authorityDeps := deps
	authorityDeps.Search = cfg.Authority
	authority, err := backend.Assemble(authorityDeps, backend.Authority())
	if err != nil {
		logger.Fatal("Failed to assemble authority backend", zap.Error(err))
	}

	// Recommendation modules configured for the primary search
	registry := recommend.NewRegistry(recommend.Deps{Authority: authority, Logger: logger})
	modules := make([]recommend.Config, 0, len(cfg.Searches.Recommendations))
	for _, s := range cfg.Searches.Recommendations {
		mc, err := recommend.ParseConfig(s)
		if err != nil {
			logger.Fatal("Invalid recommendation module", zap.String("module", s), zap.Error(err))
		}
		if !registry.Has(mc.Name) {
			logger.Fatal("Unknown recommendation module",
				zap.String("module", mc.Name), zap.Strings("available", registry.Names()))
		}
		modules = append(modules, mc)
	}

	// Use case services
	searchSvc := searchuc.New(biblio, registry, modules)

	healthSvc := healthuc.New(map[string]healthuc.Pinger{
		biblio.Core():    biblio,
		authority.Core(): authority,
	}, cachePinger, logger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// proxyFunc returns nil when no proxy is configured, so connectors dial directly.
func proxyFunc(cfg config.ProxyConfig) (solr.ProxyFunc, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	return http.ProxyURL(u), nil
}
