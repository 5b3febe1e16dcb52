// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package search

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// synonyms maps a normalized term to the additional terms it expands to.
// Expansion only adds terms, never removes the original.
var synonyms = map[string][]string{
	"shirt":    {"blouse", "top", "tee"},
	"blouse":   {"shirt", "top", "tee"},
	"top":      {"shirt", "blouse", "tee"},
	"tee":      {"shirt", "blouse", "top"},
	"men":      {"male", "mens", "man"},
	"male":     {"men", "mens", "man"},
	"mens":     {"men", "male", "man"},
	"man":      {"men", "male", "mens"},
	"kids":     {"children", "boys", "girls"},
	"children": {"kids", "boys", "girls"},
	"boys":     {"kids", "children", "girls"},
	"girls":    {"kids", "children", "boys"},
}

// normalize lowercases the query, strips punctuation and collapses
// whitespace runs into single spaces.
func normalize(query string) string {
	q := strings.ToLower(query)
	q = nonWord.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

// terms splits a normalized query into its terms.
func terms(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// expand unions each term's synonyms into the term set, preserving the
// original terms first and deduplicating.
func expand(original []string) []string {
	seen := make(map[string]struct{}, len(original)*2)
	expanded := make([]string, 0, len(original)*2)
	add := func(term string) {
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		expanded = append(expanded, term)
	}
	for _, term := range original {
		add(term)
	}
	for _, term := range original {
		for _, syn := range synonyms[term] {
			add(syn)
		}
	}
	return expanded
}
