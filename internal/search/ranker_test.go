// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package search

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/popularity"
	"github.com/shopsignal/shopsignal/internal/store/memory"
)

var searchCfg = config.SearchConfig{
	TextWeight:        0.5,
	PopularityWeight:  0.3,
	RatingWeight:      0.2,
	ExactMatchBoost:   20,
	TextScoreCeiling:  10,
	PopularityCeiling: 10000,
}

func newTestRanker(mem *memory.Store) *Ranker {
	scorerCfg := config.ScoringConfig{DecayBase: 0.9, TrendingWindow: 7 * 24 * time.Hour}
	scorer := popularity.NewScorer(mem.Catalog(), mem.Interactions(), scorerCfg, nil, zerolog.Nop())
	return NewRanker(mem.Catalog(), scorer, searchCfg, nil, zerolog.Nop())
}

func seedProduct(t *testing.T, mem *memory.Store, p models.Product) {
	t.Helper()
	if err := mem.Catalog().Save(context.Background(), p); err != nil {
		t.Fatalf("seed product %d: %v", p.ID, err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"lowercase", "Red SHOES", "red shoes"},
		{"strip punctuation", "men's  shoes!!", "mens shoes"},
		{"collapse whitespace", "  red \t shoes  ", "red shoes"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.query); got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExpandSynonyms(t *testing.T) {
	got := expand([]string{"men", "shirt"})

	wantPresent := []string{"men", "shirt", "male", "mens", "man", "blouse", "top", "tee"}
	set := make(map[string]struct{}, len(got))
	for _, term := range got {
		set[term] = struct{}{}
	}
	for _, term := range wantPresent {
		if _, ok := set[term]; !ok {
			t.Errorf("expanded terms missing %q: %v", term, got)
		}
	}

	// Originals come first so exact-match logic can rely on order.
	if got[0] != "men" || got[1] != "shirt" {
		t.Errorf("originals not first: %v", got)
	}
}

func TestSearchEmptyQueryReturnsAllUnscored(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Name: "Red Shoes", Popularity: 500, Rating: 5})
	seedProduct(t, mem, models.Product{ID: 2, Name: "Blue Jacket", Popularity: 100, Rating: 3})

	r := newTestRanker(mem)
	got, err := r.Search(context.Background(), "", Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d results, want the full catalog (2)", len(got))
	}
	for _, sp := range got {
		if sp.Score != 0 {
			t.Errorf("product %d score = %v, want 0 for blank query", sp.Product.ID, sp.Score)
		}
	}
}

func TestSearchRanking(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Name: "Leather Jacket", Description: "warm jacket", Popularity: 1000, Rating: 4})
	seedProduct(t, mem, models.Product{ID: 2, Name: "Rain Coat", Description: "jacket style coat", Popularity: 9000, Rating: 5})
	seedProduct(t, mem, models.Product{ID: 3, Name: "Socks", Description: "cotton socks", Popularity: 9999, Rating: 5})

	r := newTestRanker(mem)
	got, err := r.Search(context.Background(), "jacket", Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (socks must not match)", len(got))
	}
	// Product 1 matches in name and description and takes the full
	// exact-match boost; it outranks the more popular partial match.
	if got[0].Product.ID != 1 {
		t.Errorf("top result = %d, want 1", got[0].Product.ID)
	}

	// name (2) + description (1) = 3 text points:
	// 0.5*30 + 0.3*10 + 0.2*80 + 20 = 54.
	if got[0].Score != 54 {
		t.Errorf("top score = %v, want 54", got[0].Score)
	}
	// description only = 1 point: 0.5*10 + 0.3*90 + 0.2*100 = 52.
	if got[1].Score != 52 {
		t.Errorf("second score = %v, want 52", got[1].Score)
	}
}

func TestSearchSynonymExpansionMatches(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Name: "Silk Blouse", Rating: 4})

	r := newTestRanker(mem)
	got, err := r.Search(context.Background(), "shirt", Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Product.ID != 1 {
		t.Fatalf("synonym expansion failed, got %+v", got)
	}
	// "shirt" does not literally appear in the name: no exact boost.
	// text 2 points: 0.5*20 + 0.2*80 = 26.
	if got[0].Score != 26 {
		t.Errorf("score = %v, want 26 without exact boost", got[0].Score)
	}
}

func TestSearchScoreClamp(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{
		ID:          1,
		Name:        "shirt blouse top tee jacket coat",
		Description: "shirt blouse top tee jacket coat",
		Popularity:  10000,
		Rating:      5,
	})

	r := newTestRanker(mem)
	got, err := r.Search(context.Background(), "shirt", Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Score != 100 {
		t.Errorf("score = %v, want clamp at 100", got[0].Score)
	}
}

func TestSearchFilters(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Name: "Jacket", Category: "outerwear", Price: 50})
	seedProduct(t, mem, models.Product{ID: 2, Name: "Jacket", Category: "outerwear", Price: 500})
	seedProduct(t, mem, models.Product{ID: 3, Name: "Jacket", Category: "kidswear", Price: 50})

	r := newTestRanker(mem)
	got, err := r.Search(context.Background(), "jacket", Filter{Category: "outerwear", MaxPrice: 100})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Product.ID != 1 {
		t.Errorf("filtered results = %+v, want only product 1", got)
	}
}

func TestSuggestCorrections(t *testing.T) {
	r := newTestRanker(memory.New())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"known misspelling", "jaket", []string{"jacket"}},
		{"phrase with misspelling", "red jaket", []string{"red jacket"}},
		{"already correct", "jacket", nil},
		{"blank", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.SuggestCorrections(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SuggestCorrections(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SuggestCorrections(%q) = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}

func TestPopularFallback(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Popularity: 10})
	seedProduct(t, mem, models.Product{ID: 2, Popularity: 99})
	seedProduct(t, mem, models.Product{ID: 3, Popularity: 50})

	r := newTestRanker(mem)
	got, err := r.PopularFallback(context.Background(), 2)
	if err != nil {
		t.Fatalf("PopularFallback: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("fallback order wrong: %+v", got)
	}
}
