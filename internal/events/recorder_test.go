// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store/memory"
	"github.com/shopsignal/shopsignal/internal/validation"
)

// capturePublisher records published messages; optionally fails.
type capturePublisher struct {
	mu       sync.Mutex
	messages []*message.Message
	fail     bool
}

func (p *capturePublisher) Publish(_ string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.messages = append(p.messages, msgs...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func TestRecordAppendsAndPublishes(t *testing.T) {
	mem := memory.New()
	pub := &capturePublisher{}
	r := NewRecorder(mem.Interactions(), pub, zerolog.Nop())

	in := models.Interaction{
		ProductID: 1,
		UserID:    "u1",
		Type:      models.InteractionPurchase,
	}
	if err := r.Record(context.Background(), in); err != nil {
		t.Fatalf("Record: %v", err)
	}

	stored, err := mem.Interactions().Find(context.Background(), storeFilterAll())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d interactions, want 1", len(stored))
	}
	if stored[0].Timestamp.IsZero() {
		t.Error("missing timestamp was not stamped")
	}
	if pub.count() != 1 {
		t.Fatalf("published %d messages, want 1", pub.count())
	}

	event, err := decodeMessage(pub.messages[0])
	if err != nil {
		t.Fatalf("decodeMessage: %v", err)
	}
	if event.EventID == "" {
		t.Error("event id missing")
	}
	if event.Interaction.ProductID != 1 || event.Interaction.Type != models.InteractionPurchase {
		t.Errorf("published interaction = %+v", event.Interaction)
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name string
		in   models.Interaction
	}{
		{"missing product", models.Interaction{UserID: "u1", Type: models.InteractionView}},
		{"missing user", models.Interaction{ProductID: 1, Type: models.InteractionView}},
		{"bad type", models.Interaction{ProductID: 1, UserID: "u1", Type: "wishlisted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			pub := &capturePublisher{}
			r := NewRecorder(mem.Interactions(), pub, zerolog.Nop())

			err := r.Record(context.Background(), tt.in)
			if err == nil {
				t.Fatal("Record accepted invalid interaction")
			}
			if !validation.IsValidationError(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			if pub.count() != 0 {
				t.Error("invalid interaction was published")
			}
		})
	}
}

func TestRecordSwallowsPublishFailure(t *testing.T) {
	mem := memory.New()
	pub := &capturePublisher{fail: true}
	r := NewRecorder(mem.Interactions(), pub, zerolog.Nop())

	in := models.Interaction{
		ProductID: 1,
		UserID:    "u1",
		Type:      models.InteractionView,
		Timestamp: time.Now(),
	}
	if err := r.Record(context.Background(), in); err != nil {
		t.Fatalf("Record returned publish failure to caller: %v", err)
	}

	stored, err := mem.Interactions().Find(context.Background(), storeFilterAll())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(stored) != 1 {
		t.Error("interaction not appended despite publish failure")
	}
}
