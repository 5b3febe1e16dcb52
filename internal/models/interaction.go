// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package models

import "time"

// InteractionType classifies behavioral events for implicit feedback.
type InteractionType string

const (
	// InteractionView indicates the product detail page was opened.
	InteractionView InteractionType = "view"
	// InteractionCartAdd indicates the product was added to a cart.
	InteractionCartAdd InteractionType = "cart_add"
	// InteractionPurchase indicates the product was bought.
	InteractionPurchase InteractionType = "purchase"
)

// Valid reports whether t is one of the enumerated interaction types.
// Anything else is a validation failure at the ingestion boundary.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionCartAdd, InteractionPurchase:
		return true
	default:
		return false
	}
}

// Weight returns the base scoring weight for this interaction type.
// Purchases are the strongest positive signal, views the weakest.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionPurchase:
		return 10
	case InteractionCartAdd:
		return 5
	case InteractionView:
		return 1
	default:
		return 0
	}
}

// Interaction is a single append-only behavioral event.
// Interactions are immutable once recorded and retained indefinitely.
type Interaction struct {
	// ProductID is the catalog product the event refers to.
	ProductID int `json:"product_id" validate:"required"`

	// UserID identifies the acting user.
	UserID string `json:"user_id" validate:"required"`

	// Type is one of view, cart_add, purchase.
	Type InteractionType `json:"type" validate:"required,oneof=view cart_add purchase"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Category and Price carry optional product metadata captured at event
	// time. View events use them to update the personalization profile.
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price,omitempty"`
}
