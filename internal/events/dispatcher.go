// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/popularity"
	"github.com/shopsignal/shopsignal/internal/recommend"
)

// Dispatcher runs the asynchronous side effects of interaction
// ingestion on an in-process Pub/Sub. Every handler acks its message
// regardless of outcome: the pipeline is fire-and-forget, so a failed
// side effect is logged and counted but never redelivered.
type Dispatcher struct {
	pubsub   *gochannel.GoChannel
	router   *message.Router
	scorer   *popularity.Scorer
	profiler *recommend.Profiler
	breaker  *gobreaker.CircuitBreaker[int]
	logger   zerolog.Logger
}

// NewDispatcher wires the gochannel Pub/Sub, the router and the two
// ingestion side-effect handlers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDispatcher(cfg config.EventsConfig, scorer *popularity.Scorer, profiler *recommend.Profiler, logger zerolog.Logger) (*Dispatcher, error) {
	componentLogger := logger.With().Str("component", "dispatcher").Logger()
	wmLog := newWatermillLogger(componentLogger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.BufferSize),
	}, wmLog)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLog)
	if err != nil {
		return nil, fmt.Errorf("create dispatch router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	d := &Dispatcher{
		pubsub:   pubsub,
		router:   router,
		scorer:   scorer,
		profiler: profiler,
		breaker: gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
			Name: "popularity-recompute",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
			},
			Timeout: cfg.Breaker.OpenTimeout,
		}),
		logger: componentLogger,
	}

	router.AddNoPublisherHandler(
		"popularity-recompute",
		TopicInteractionRecorded,
		pubsub,
		d.handleRecompute,
	)
	router.AddNoPublisherHandler(
		"profile-update",
		TopicInteractionRecorded,
		pubsub,
		d.handleProfileUpdate,
	)

	return d, nil
}

// Publisher exposes the Pub/Sub for the Recorder.
func (d *Dispatcher) Publisher() message.Publisher {
	return d.pubsub
}

// Run processes messages until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	return d.router.Run(ctx)
}

// Running is closed once the router is processing messages.
func (d *Dispatcher) Running() chan struct{} {
	return d.router.Running()
}

// Close stops the router and the Pub/Sub, waiting up to the configured
// close timeout for in-flight handlers.
func (d *Dispatcher) Close() error {
	if err := d.router.Close(); err != nil {
		return fmt.Errorf("close dispatch router: %w", err)
	}
	if err := d.pubsub.Close(); err != nil {
		return fmt.Errorf("close pubsub: %w", err)
	}
	return nil
}

// handleRecompute re-scores the interacted product. The circuit breaker
// sheds recompute load when score persistence fails repeatedly.
func (d *Dispatcher) handleRecompute(msg *message.Message) error {
	event, err := decodeMessage(msg)
	if err != nil {
		d.logger.Error().Err(err).Msg("drop undecodable message")
		metrics.DispatchedTasks.WithLabelValues("popularity", "dropped").Inc()
		return nil
	}

	score, err := d.breaker.Execute(func() (int, error) {
		return d.scorer.Recompute(msg.Context(), event.Interaction.ProductID)
	})
	if err != nil {
		d.logger.Error().
			Err(err).
			Str("event_id", event.EventID).
			Int("product_id", event.Interaction.ProductID).
			Msg("popularity recompute failed")
		metrics.DispatchedTasks.WithLabelValues("popularity", "error").Inc()
		return nil
	}

	d.logger.Debug().
		Int("product_id", event.Interaction.ProductID).
		Int("score", score).
		Msg("popularity recomputed")
	metrics.DispatchedTasks.WithLabelValues("popularity", "ok").Inc()
	return nil
}

// handleProfileUpdate folds view events into the user's taste profile.
func (d *Dispatcher) handleProfileUpdate(msg *message.Message) error {
	event, err := decodeMessage(msg)
	if err != nil {
		d.logger.Error().Err(err).Msg("drop undecodable message")
		metrics.DispatchedTasks.WithLabelValues("profile", "dropped").Inc()
		return nil
	}
	if event.Interaction.Type != models.InteractionView {
		return nil
	}

	if err := d.profiler.RecordView(msg.Context(), event.Interaction); err != nil {
		d.logger.Error().
			Err(err).
			Str("event_id", event.EventID).
			Str("user_id", event.Interaction.UserID).
			Msg("profile update failed")
		metrics.DispatchedTasks.WithLabelValues("profile", "error").Inc()
		return nil
	}

	metrics.DispatchedTasks.WithLabelValues("profile", "ok").Inc()
	return nil
}
