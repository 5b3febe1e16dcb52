// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package supervisor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/events"
)

// DispatcherService adapts the event dispatcher to suture.Service so
// the tree restarts it if the router ever exits with an error.
type DispatcherService struct {
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewDispatcherService wraps a dispatcher for supervision.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDispatcherService(dispatcher *events.Dispatcher, logger zerolog.Logger) *DispatcherService {
	return &DispatcherService{
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "dispatcher-service").Logger(),
	}
}

// Serve runs the dispatcher until ctx is canceled. A clean context
// cancellation returns ctx.Err so suture treats it as a normal stop.
func (s *DispatcherService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("dispatcher starting")

	err := s.dispatcher.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("dispatcher exited")
		return err
	}
	return nil
}

// String names the service in supervisor logs.
func (s *DispatcherService) String() string {
	return "event-dispatcher"
}
