// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package models

import "time"

// Product is a catalog item as seen by the merchandising core.
//
// The catalog collaborator owns the record; this core only ever mutates
// Popularity (popularity scorer) and Price (pricing engine).
type Product struct {
	// ID is the unique catalog identifier.
	ID int `json:"id"`

	// Name is the display name matched by search.
	Name string `json:"name"`

	// Description is the free-text description matched by search.
	Description string `json:"description,omitempty"`

	// Category groups products for similarity and personalization.
	Category string `json:"category"`

	// Price is the current selling price.
	Price float64 `json:"price"`

	// OldPrice is the notional reference price used for discount display.
	// Zero means no reference price is known.
	OldPrice float64 `json:"old_price,omitempty"`

	// CostPrice is the floor for dynamic pricing. Zero means unset;
	// the pricing engine then assumes 60% of the current price.
	CostPrice float64 `json:"cost_price,omitempty"`

	// Stock is the on-hand quantity. Never negative.
	Stock int `json:"stock"`

	// Popularity is the decayed interaction score. Always >= 1.
	Popularity int `json:"popularity"`

	// Rating is the average review rating, 0-5.
	Rating float64 `json:"rating"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `json:"review_count"`

	// CreatedAt orders products for the "newest" sort key.
	CreatedAt time.Time `json:"created_at"`
}

// DiscountPercent returns the rounded percentage discount implied by
// OldPrice, or 0 when there is no effective discount.
func (p Product) DiscountPercent() int {
	if p.OldPrice <= p.Price || p.OldPrice <= 0 {
		return 0
	}
	return int(((p.OldPrice-p.Price)/p.OldPrice*100) + 0.5)
}

// ScoredProduct pairs a product with a component-specific score
// (similarity, trending weight, relevance, ...).
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}
