// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package models

import (
	"sort"
	"time"
)

// PriceRange is the observed min/max price band of a user's viewed products.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Profile is a per-user taste profile built from view events.
// Created lazily on first view, mutated on every subsequent view,
// never deleted by this core.
type Profile struct {
	UserID string `json:"user_id"`

	// ViewedProducts holds distinct viewed product ids in view order,
	// capped at a bounded history (oldest evicted first).
	ViewedProducts []int `json:"viewed_products"`

	// CategoryViews counts views per category. Never evicted.
	CategoryViews map[string]int `json:"category_views"`

	// PriceRange is widened to include every viewed product's price.
	PriceRange PriceRange `json:"price_range"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile creates an empty profile for the given user.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:        userID,
		CategoryViews: make(map[string]int),
	}
}

// HasViewed reports whether the product id is in the viewed history.
func (p *Profile) HasViewed(productID int) bool {
	for _, id := range p.ViewedProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// TopCategories returns up to n category names ordered by view count
// descending, ties broken by name for determinism.
func (p *Profile) TopCategories(n int) []string {
	type catCount struct {
		name  string
		count int
	}
	counts := make([]catCount, 0, len(p.CategoryViews))
	for name, count := range p.CategoryViews {
		counts = append(counts, catCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})
	if n > len(counts) {
		n = len(counts)
	}
	names := make([]string, 0, n)
	for _, c := range counts[:n] {
		names = append(names, c.name)
	}
	return names
}
