// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store/memory"
)

var pricingCfg = config.PricingConfig{
	ScarcityThreshold: 0.2,
	GlutThreshold:     0.8,
	CompetitorBand:    0.05,
	DefaultCostRatio:  0.6,
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(mem *memory.Store) *Engine {
	e := New(mem.Catalog(), mem.Carts(), pricingCfg, zerolog.Nop())
	e.now = func() time.Time { return testNow }
	return e
}

func TestCartTotalWithCouponAndTax(t *testing.T) {
	mem := memory.New()
	mem.PutCart(&models.CartSnapshot{
		UserID: "u1",
		Items: []models.CartItem{
			{ProductID: 1, Price: 250, Quantity: 4},
		},
		Coupon: &models.Coupon{
			Code:            "SAVE10",
			DiscountPercent: 10,
			MinPurchase:     500,
			ExpiryDate:      testNow.Add(24 * time.Hour),
		},
	})

	e := newTestEngine(mem)
	got, err := e.CartTotal(context.Background(), "u1", 0.15)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}

	// 1000 subtotal, 100 discount, tax on 900 = 135, total 1035.
	if got.Subtotal != 1000 {
		t.Errorf("Subtotal = %v, want 1000", got.Subtotal)
	}
	if got.Discount != 100 {
		t.Errorf("Discount = %v, want 100", got.Discount)
	}
	if got.Tax != 135 {
		t.Errorf("Tax = %v, want 135", got.Tax)
	}
	if got.Total != 1035 {
		t.Errorf("Total = %v, want 1035", got.Total)
	}
	if !got.CouponApplied || got.CouponCode != "SAVE10" {
		t.Errorf("coupon not reported: %+v", got)
	}
}

func TestCartTotalNoTaxNoCouponRoundTrip(t *testing.T) {
	mem := memory.New()
	mem.PutCart(&models.CartSnapshot{
		UserID: "u1",
		Items: []models.CartItem{
			{ProductID: 1, Price: 19.99, Quantity: 3},
			{ProductID: 2, Price: 5.25, Quantity: 1},
		},
	})

	e := newTestEngine(mem)
	got, err := e.CartTotal(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}
	if got.Total != got.Subtotal {
		t.Errorf("Total = %v, Subtotal = %v, want equal with zero tax and no coupon", got.Total, got.Subtotal)
	}
	if got.Subtotal != 65.22 {
		t.Errorf("Subtotal = %v, want 65.22", got.Subtotal)
	}
}

func TestCartTotalExpiredCoupon(t *testing.T) {
	mem := memory.New()
	mem.PutCart(&models.CartSnapshot{
		UserID: "u1",
		Items:  []models.CartItem{{ProductID: 1, Price: 100, Quantity: 1}},
		Coupon: &models.Coupon{
			Code:            "OLD",
			DiscountPercent: 90,
			ExpiryDate:      testNow.Add(-time.Minute),
		},
	})

	e := newTestEngine(mem)
	got, err := e.CartTotal(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}
	if got.Discount != 0 || got.Total != 100 {
		t.Errorf("expired coupon applied: %+v", got)
	}
	if got.CouponApplied {
		t.Error("CouponApplied = true for expired coupon")
	}
}

func TestCartTotalBelowMinPurchase(t *testing.T) {
	mem := memory.New()
	mem.PutCart(&models.CartSnapshot{
		UserID: "u1",
		Items:  []models.CartItem{{ProductID: 1, Price: 100, Quantity: 1}},
		Coupon: &models.Coupon{
			Code:            "BIG",
			DiscountPercent: 20,
			MinPurchase:     500,
			ExpiryDate:      testNow.Add(24 * time.Hour),
		},
	})

	e := newTestEngine(mem)
	got, err := e.CartTotal(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}
	if got.Discount != 0 || got.CouponApplied {
		t.Errorf("coupon below min purchase applied: %+v", got)
	}
}

func TestCartTotalMissingCart(t *testing.T) {
	e := newTestEngine(memory.New())
	got, err := e.CartTotal(context.Background(), "nobody", 0.2)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}
	if got != (models.CartTotal{}) {
		t.Errorf("missing cart totaled to %+v, want all zeros", got)
	}
}

func TestCartTotalEmptyCart(t *testing.T) {
	mem := memory.New()
	mem.PutCart(&models.CartSnapshot{UserID: "u1"})

	e := newTestEngine(mem)
	got, err := e.CartTotal(context.Background(), "u1", 0.2)
	if err != nil {
		t.Fatalf("CartTotal: %v", err)
	}
	if got != (models.CartTotal{}) {
		t.Errorf("empty cart totaled to %+v, want all zeros", got)
	}
}
