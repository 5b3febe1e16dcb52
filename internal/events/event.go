// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/shopsignal/shopsignal/internal/models"
)

// TopicInteractionRecorded carries every accepted interaction to the
// dispatcher's handlers.
const TopicInteractionRecorded = "interactions.recorded"

// InteractionRecorded is the payload published after an interaction is
// appended to the log.
type InteractionRecorded struct {
	EventID     string             `json:"event_id"`
	Interaction models.Interaction `json:"interaction"`
}

// newMessage marshals the event into a Watermill message keyed by a
// fresh UUID.
func newMessage(event InteractionRecorded) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal interaction event: %w", err)
	}
	return message.NewMessage(uuid.NewString(), payload), nil
}

// decodeMessage unmarshals a Watermill message back into the event.
func decodeMessage(msg *message.Message) (InteractionRecorded, error) {
	var event InteractionRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return InteractionRecorded{}, fmt.Errorf("unmarshal interaction event %s: %w", msg.UUID, err)
	}
	return event, nil
}
