// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package search

import (
	"context"
	"strings"

	"github.com/shopsignal/shopsignal/internal/models"
)

// corrections maps common misspellings to their corrected term.
var corrections = map[string]string{
	"jaket":    "jacket",
	"jackt":    "jacket",
	"shrit":    "shirt",
	"tshert":   "tshirt",
	"sheos":    "shoes",
	"shooes":   "shoes",
	"trousres": "trousers",
	"sweter":   "sweater",
	"hoddie":   "hoodie",
	"leggins":  "leggings",
	"sandles":  "sandals",
	"acessory": "accessory",
}

// SuggestCorrections rewrites each misspelled term of the query via the
// static correction table and returns the corrected phrase, or nil when
// nothing changed. Callers surface it as "did you mean" on zero results.
func (r *Ranker) SuggestCorrections(query string) []string {
	original := terms(normalize(query))
	if len(original) == 0 {
		return nil
	}

	corrected := make([]string, len(original))
	changed := false
	for i, term := range original {
		if fix, ok := corrections[term]; ok {
			corrected[i] = fix
			changed = true
		} else {
			corrected[i] = term
		}
	}
	if !changed {
		return nil
	}
	return []string{strings.Join(corrected, " ")}
}

// PopularFallback returns up to limit products ordered by popularity,
// for presenting "popular items" when a search comes back empty.
func (r *Ranker) PopularFallback(ctx context.Context, limit int) ([]models.Product, error) {
	return r.scorer.BestSellers(ctx, limit)
}
