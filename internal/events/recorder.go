// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
	"github.com/shopsignal/shopsignal/internal/validation"
)

// Recorder is the ingestion entry point. Record validates and appends
// the interaction synchronously, then publishes it for asynchronous
// processing and returns without waiting for the side effects.
type Recorder struct {
	interactions store.InteractionStore
	publisher    message.Publisher
	logger       zerolog.Logger

	// now stamps interactions that arrive without a timestamp.
	now func() time.Time
}

// NewRecorder creates an interaction recorder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(interactions store.InteractionStore, publisher message.Publisher, logger zerolog.Logger) *Recorder {
	return &Recorder{
		interactions: interactions,
		publisher:    publisher,
		logger:       logger.With().Str("component", "recorder").Logger(),
		now:          time.Now,
	}
}

// Record validates and persists one interaction. Validation failures
// are returned to the caller; publish failures are logged and swallowed
// so ingestion never blocks on the side-effect pipeline.
func (r *Recorder) Record(ctx context.Context, interaction models.Interaction) error {
	if verr := validation.ValidateStruct(interaction); verr != nil {
		return verr
	}
	if !interaction.Type.Valid() {
		return validation.NewError("type", fmt.Sprintf("unknown interaction type %q", interaction.Type))
	}

	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = r.now()
	}

	if err := r.interactions.Append(ctx, interaction); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}

	event := InteractionRecorded{
		EventID:     uuid.NewString(),
		Interaction: interaction,
	}
	msg, err := newMessage(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("encode interaction event")
		return nil
	}
	if err := r.publisher.Publish(TopicInteractionRecorded, msg); err != nil {
		r.logger.Error().
			Err(err).
			Str("event_id", event.EventID).
			Int("product_id", interaction.ProductID).
			Msg("publish interaction event")
	}

	return nil
}
