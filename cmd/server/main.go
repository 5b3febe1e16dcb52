// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Command server wires the merchandising core and runs its background
// pipeline under supervision: the event dispatcher (popularity
// recompute, profile updates) and the Prometheus exposition endpoint.
// The read-side components are constructed here and exported for the
// surrounding application to call.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopsignal/shopsignal/internal/cache"
	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/events"
	"github.com/shopsignal/shopsignal/internal/forecast"
	"github.com/shopsignal/shopsignal/internal/logging"
	"github.com/shopsignal/shopsignal/internal/popularity"
	"github.com/shopsignal/shopsignal/internal/pricing"
	"github.com/shopsignal/shopsignal/internal/recommend"
	"github.com/shopsignal/shopsignal/internal/search"
	"github.com/shopsignal/shopsignal/internal/store"
	"github.com/shopsignal/shopsignal/internal/store/badgerstore"
	"github.com/shopsignal/shopsignal/internal/store/duck"
	"github.com/shopsignal/shopsignal/internal/store/memory"
	"github.com/shopsignal/shopsignal/internal/supervisor"
)

// core bundles every constructed component plus the closers that must
// run at shutdown.
type core struct {
	scorer       *popularity.Scorer
	forecaster   *forecast.Forecaster
	similarity   *recommend.Similarity
	personalizer *recommend.Personalizer
	profiler     *recommend.Profiler
	ranker       *search.Ranker
	pricer       *pricing.Engine
	recorder     *events.Recorder
	dispatcher   *events.Dispatcher

	closers []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("backend", cfg.Database.Backend).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Starting ShopSignal")

	c, err := buildCore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build components")
	}
	defer c.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDispatchService(supervisor.NewDispatcherService(c.dispatcher, logger))
	if cfg.Metrics.Enabled {
		tree.AddDispatchService(newMetricsService(cfg.Metrics.Addr, logger))
	}

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("Supervisor exited")
		}
	}

	cancel()
	if err := c.dispatcher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing dispatcher")
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("ShopSignal stopped")
	os.Exit(0)
}

// buildCore selects the stores and wires every component.
func buildCore(cfg *config.Config) (*core, error) {
	c := &core{}

	var (
		catalog      store.CatalogStore
		interactions store.InteractionStore
		profiles     store.ProfileStore
		carts        store.CartStore
	)

	switch cfg.Database.Backend {
	case "duckdb":
		db, err := duck.New(duck.Config{
			Path:      cfg.Database.Path,
			MaxMemory: cfg.Database.MaxMemory,
			Threads:   cfg.Database.Threads,
		})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		catalog = db.Catalog()
		interactions = db.Interactions()

		badgerProfiles, err := badgerstore.Open(badgerstore.Config{
			Path: cfg.Database.ProfilePath,
		})
		if err != nil {
			c.close()
			return nil, err
		}
		c.closers = append(c.closers, badgerProfiles.Close)
		profiles = badgerProfiles

		// Cart snapshots are owned by the surrounding application;
		// the standalone binary serves an empty in-memory cart store.
		carts = memory.New().Carts()
	default:
		mem := memory.New()
		catalog = mem.Catalog()
		interactions = mem.Interactions()
		profiles = mem.Profiles()
		carts = mem.Carts()
	}

	var cacher cache.Cacher
	if cfg.Cache.Enabled {
		cacher = cache.New(cfg.Cache.TTL)
	}

	logger := logging.Logger()

	c.scorer = popularity.NewScorer(catalog, interactions, cfg.Scoring, cacher, logger)
	c.forecaster = forecast.New(catalog, interactions, cfg.Forecast, logger)
	c.similarity = recommend.NewSimilarity(catalog, cfg.Recommend, cacher, logger)
	c.profiler = recommend.NewProfiler(profiles, cfg.Recommend, logger)
	c.personalizer = recommend.NewPersonalizer(catalog, profiles, c.scorer, cfg.Recommend, logger)
	c.ranker = search.NewRanker(catalog, c.scorer, cfg.Search, cacher, logger)
	c.pricer = pricing.New(catalog, carts, cfg.Pricing, logger)

	dispatcher, err := events.NewDispatcher(cfg.Events, c.scorer, c.profiler, logger)
	if err != nil {
		c.close()
		return nil, err
	}
	c.dispatcher = dispatcher
	c.recorder = events.NewRecorder(interactions, dispatcher.Publisher(), logger)

	return c, nil
}

func (c *core) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}
}
