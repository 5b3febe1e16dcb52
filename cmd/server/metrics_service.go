// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// metricsService serves the Prometheus exposition endpoint as a
// supervised suture service.
type metricsService struct {
	addr   string
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newMetricsService(addr string, logger zerolog.Logger) *metricsService {
	return &metricsService{
		addr:   addr,
		logger: logger.With().Str("component", "metrics-server").Logger(),
	}
}

// Serve runs the listener until ctx is canceled.
func (s *metricsService) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.addr).Msg("metrics endpoint listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("metrics server shutdown")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *metricsService) String() string {
	return "metrics-server"
}
