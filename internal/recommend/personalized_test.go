// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store/memory"
)

func seedProfile(t *testing.T, mem *memory.Store, profile *models.Profile) {
	t.Helper()
	if err := mem.Profiles().Save(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestRecommendColdStart(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Popularity: 5})
	seedProduct(t, mem, models.Product{ID: 2, Popularity: 10})

	p := NewPersonalizer(mem.Catalog(), mem.Profiles(), newTestScorer(mem), recommendCfg, zerolog.Nop())
	got, err := p.Recommend(context.Background(), "stranger", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// No profile: best sellers by popularity.
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("cold start = %+v, want best sellers [2 1]", ids(got))
	}
}

func TestRecommendFromProfile(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Category: "shoes", Price: 100, Popularity: 10})
	seedProduct(t, mem, models.Product{ID: 2, Category: "shoes", Price: 90, Popularity: 50})
	seedProduct(t, mem, models.Product{ID: 3, Category: "shoes", Price: 95, Popularity: 30})
	seedProduct(t, mem, models.Product{ID: 4, Category: "bags", Price: 100, Popularity: 99})
	seedProduct(t, mem, models.Product{ID: 5, Category: "shoes", Price: 500, Popularity: 80}) // out of price range

	profile := models.NewProfile("u1")
	profile.ViewedProducts = []int{1}
	profile.CategoryViews["shoes"] = 5
	profile.PriceRange = models.PriceRange{Min: 90, Max: 110}
	seedProfile(t, mem, profile)

	p := NewPersonalizer(mem.Catalog(), mem.Profiles(), newTestScorer(mem), recommendCfg, zerolog.Nop())
	got, err := p.Recommend(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Candidates are shoes in [72, 132] excluding viewed product 1,
	// ranked by popularity: 2 (50) then 3 (30).
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("got %v, want [2 3]", ids(got))
	}
}

func TestRecommendExcludesViewedAfterBackfill(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Category: "shoes", Price: 100, Popularity: 100})
	seedProduct(t, mem, models.Product{ID: 2, Category: "shoes", Price: 100, Popularity: 50})
	seedProduct(t, mem, models.Product{ID: 3, Category: "bags", Price: 100, Popularity: 90})

	profile := models.NewProfile("u1")
	profile.ViewedProducts = []int{1}
	profile.CategoryViews["shoes"] = 2
	profile.PriceRange = models.PriceRange{Min: 100, Max: 100}
	seedProfile(t, mem, profile)

	p := NewPersonalizer(mem.Catalog(), mem.Profiles(), newTestScorer(mem), recommendCfg, zerolog.Nop())
	got, err := p.Recommend(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Category match 2 first, then backfill 3; the viewed product 1
	// must not reappear even though it tops the best sellers.
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("got %v, want [2 3]", ids(got))
	}
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
