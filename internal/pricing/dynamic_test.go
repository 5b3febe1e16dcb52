// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
	"github.com/shopsignal/shopsignal/internal/store/memory"
)

func seedProduct(t *testing.T, mem *memory.Store, p models.Product) {
	t.Helper()
	if err := mem.Catalog().Save(context.Background(), p); err != nil {
		t.Fatalf("seed product %d: %v", p.ID, err)
	}
}

func TestDynamicPricingScarcityRaise(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Price: 100, CostPrice: 50, Stock: 5})

	e := newTestEngine(mem)
	got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{
		AverageStock:     100,
		DemandMultiplier: 1,
	})
	if err != nil {
		t.Fatalf("ApplyDynamicPricing: %v", err)
	}

	// Scarce (5 < 20): raise by 0.1 + 1*0.1 = 20%.
	if got.NewPrice != 120 {
		t.Errorf("NewPrice = %v, want 120", got.NewPrice)
	}
	if !got.Changed {
		t.Error("Changed = false, want true")
	}
	if got.Reason != ReasonHighDemand {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonHighDemand)
	}

	product, err := mem.Catalog().FindOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if product.Price != 120 {
		t.Errorf("persisted price = %v, want 120", product.Price)
	}
}

func TestDynamicPricingGlutLower(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Price: 100, CostPrice: 50, Stock: 90})

	e := newTestEngine(mem)
	got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{AverageStock: 100})
	if err != nil {
		t.Fatalf("ApplyDynamicPricing: %v", err)
	}

	// Glut (90 > 80): lower by 0.1 + 0.2*0.9 = 28%.
	if got.NewPrice != 72 {
		t.Errorf("NewPrice = %v, want 72", got.NewPrice)
	}
	if got.Reason != ReasonLowDemand {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonLowDemand)
	}
}

func TestDynamicPricingCompetitorClamp(t *testing.T) {
	tests := []struct {
		name        string
		price       float64
		competitors []float64
		want        float64
		wantReason  string
	}{
		{
			// Mid-band stock, price above mean*1.05: pulled down.
			name:        "pull down to upper bound",
			price:       200,
			competitors: []float64{100, 100},
			want:        105,
			wantReason:  ReasonCompetitive,
		},
		{
			// Price below mean*0.95: pulled up.
			name:        "pull up to lower bound",
			price:       80,
			competitors: []float64{100, 100},
			want:        95,
			wantReason:  ReasonCompetitive,
		},
		{
			name:        "inside band untouched",
			price:       98,
			competitors: []float64{100, 100},
			want:        98,
			wantReason:  ReasonNoChange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			seedProduct(t, mem, models.Product{ID: 1, Price: tt.price, CostPrice: 10, Stock: 50})

			e := newTestEngine(mem)
			got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{
				AverageStock:     100,
				CompetitorPrices: tt.competitors,
			})
			if err != nil {
				t.Fatalf("ApplyDynamicPricing: %v", err)
			}
			if got.NewPrice != tt.want {
				t.Errorf("NewPrice = %v, want %v", got.NewPrice, tt.want)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestDynamicPricingCostFloorLast(t *testing.T) {
	mem := memory.New()
	// Glut lowers to 72, but cost floor 80 overrides.
	seedProduct(t, mem, models.Product{ID: 1, Price: 100, CostPrice: 80, Stock: 90})

	e := newTestEngine(mem)
	got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{AverageStock: 100})
	if err != nil {
		t.Fatalf("ApplyDynamicPricing: %v", err)
	}
	if got.NewPrice != 80 {
		t.Errorf("NewPrice = %v, want cost floor 80", got.NewPrice)
	}
	if got.Reason != ReasonLowDemand {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonLowDemand)
	}
}

func TestDynamicPricingDefaultCostFloor(t *testing.T) {
	mem := memory.New()
	// No cost price: floor defaults to 0.6 * current = 60.
	seedProduct(t, mem, models.Product{ID: 1, Price: 100, Stock: 100})

	e := newTestEngine(mem)
	got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{
		AverageStock:     100,
		CompetitorPrices: []float64{10, 10},
	})
	if err != nil {
		t.Fatalf("ApplyDynamicPricing: %v", err)
	}
	// Competitor clamp would drag to 10.5, floor holds at 60.
	if got.NewPrice != 60 {
		t.Errorf("NewPrice = %v, want default floor 60", got.NewPrice)
	}
}

func TestDynamicPricingNoChange(t *testing.T) {
	mem := memory.New()
	seedProduct(t, mem, models.Product{ID: 1, Price: 100, CostPrice: 50, Stock: 50})

	e := newTestEngine(mem)
	got, err := e.ApplyDynamicPricing(context.Background(), 1, MarketInput{AverageStock: 100})
	if err != nil {
		t.Fatalf("ApplyDynamicPricing: %v", err)
	}
	if got.Changed {
		t.Errorf("Changed = true for mid-band stock with no competitors: %+v", got)
	}
	if got.Reason != ReasonNoChange {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonNoChange)
	}
}

func TestDynamicPricingUnknownProduct(t *testing.T) {
	e := newTestEngine(memory.New())
	_, err := e.ApplyDynamicPricing(context.Background(), 404, MarketInput{AverageStock: 10})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}
