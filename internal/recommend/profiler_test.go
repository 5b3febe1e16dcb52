// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store/memory"
)

func view(productID int, category string, price float64) models.Interaction {
	return models.Interaction{
		ProductID: productID,
		UserID:    "u1",
		Type:      models.InteractionView,
		Timestamp: time.Now(),
		Category:  category,
		Price:     price,
	}
}

func TestRecordViewCreatesProfile(t *testing.T) {
	mem := memory.New()
	p := NewProfiler(mem.Profiles(), recommendCfg, zerolog.Nop())

	if err := p.RecordView(context.Background(), view(7, "shoes", 80)); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	profile, err := mem.Profiles().FindOne(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if !profile.HasViewed(7) {
		t.Error("viewed product missing from profile")
	}
	if profile.CategoryViews["shoes"] != 1 {
		t.Errorf("CategoryViews[shoes] = %d, want 1", profile.CategoryViews["shoes"])
	}
	if profile.PriceRange.Min != 80 || profile.PriceRange.Max != 80 {
		t.Errorf("PriceRange = %+v, want {80 80}", profile.PriceRange)
	}
}

func TestRecordViewDistinctAndCounts(t *testing.T) {
	mem := memory.New()
	p := NewProfiler(mem.Profiles(), recommendCfg, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := p.RecordView(context.Background(), view(7, "shoes", 80)); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	if err := p.RecordView(context.Background(), view(8, "bags", 120)); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	profile, err := mem.Profiles().FindOne(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}

	// Repeated views of the same product stay one history entry but
	// keep counting toward the category.
	if len(profile.ViewedProducts) != 2 {
		t.Errorf("ViewedProducts = %v, want 2 distinct entries", profile.ViewedProducts)
	}
	if profile.CategoryViews["shoes"] != 3 {
		t.Errorf("CategoryViews[shoes] = %d, want 3", profile.CategoryViews["shoes"])
	}
	if profile.PriceRange.Min != 80 || profile.PriceRange.Max != 120 {
		t.Errorf("PriceRange = %+v, want {80 120}", profile.PriceRange)
	}
}

func TestRecordViewHistoryCap(t *testing.T) {
	mem := memory.New()
	cfg := recommendCfg
	cfg.ViewedHistoryCap = 3
	p := NewProfiler(mem.Profiles(), cfg, zerolog.Nop())

	for id := 1; id <= 5; id++ {
		if err := p.RecordView(context.Background(), view(id, "shoes", 50)); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	profile, err := mem.Profiles().FindOne(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}

	want := []int{3, 4, 5}
	if len(profile.ViewedProducts) != len(want) {
		t.Fatalf("ViewedProducts = %v, want %v", profile.ViewedProducts, want)
	}
	for i, id := range want {
		if profile.ViewedProducts[i] != id {
			t.Errorf("ViewedProducts = %v, want %v (oldest evicted first)", profile.ViewedProducts, want)
			break
		}
	}
}

func TestRecordViewIgnoresNonViews(t *testing.T) {
	mem := memory.New()
	p := NewProfiler(mem.Profiles(), recommendCfg, zerolog.Nop())

	in := view(7, "shoes", 80)
	in.Type = models.InteractionPurchase
	if err := p.RecordView(context.Background(), in); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	if _, err := mem.Profiles().FindOne(context.Background(), "u1"); err == nil {
		t.Error("purchase created a profile, want views only")
	}
}
