// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package sorting orders in-memory product collections for catalog
// browsing. Every comparator that is not a total order falls back to
// ascending id, so repeated runs on identical input always produce the
// same ordering.
package sorting

import (
	"fmt"
	"sort"

	"github.com/shopsignal/shopsignal/internal/models"
)

// Key selects the sort order for a product collection.
type Key string

const (
	// ByPrice orders cheapest first.
	ByPrice Key = "price"
	// ByDiscount orders by discount percent, deepest first.
	ByDiscount Key = "discount"
	// ByPopularity orders most popular first.
	ByPopularity Key = "popularity"
	// ByRating orders highest rated first.
	ByRating Key = "rating"
	// ByName orders lexicographically.
	ByName Key = "name"
	// ByNewest orders by creation time, newest first.
	ByNewest Key = "newest"
)

// Valid reports whether k names a supported sort order.
func (k Key) Valid() bool {
	switch k {
	case ByPrice, ByDiscount, ByPopularity, ByRating, ByName, ByNewest:
		return true
	default:
		return false
	}
}

// Sort orders products by the given key, in place. Unknown keys are an
// error and leave the slice untouched.
func Sort(products []models.Product, key Key) error {
	less, err := comparator(key)
	if err != nil {
		return err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
	return nil
}

func comparator(key Key) (func(a, b models.Product) bool, error) {
	switch key {
	case ByPrice:
		return func(a, b models.Product) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.ID < b.ID
		}, nil
	case ByDiscount:
		return func(a, b models.Product) bool {
			da, db := a.DiscountPercent(), b.DiscountPercent()
			if da != db {
				return da > db
			}
			return a.ID < b.ID
		}, nil
	case ByPopularity:
		return func(a, b models.Product) bool {
			if a.Popularity != b.Popularity {
				return a.Popularity > b.Popularity
			}
			return a.ID < b.ID
		}, nil
	case ByRating:
		return func(a, b models.Product) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.ID < b.ID
		}, nil
	case ByName:
		return func(a, b models.Product) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}, nil
	case ByNewest:
		return func(a, b models.Product) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
}
