// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Engine computes cart totals and dynamic price adjustments.
type Engine struct {
	catalog store.CatalogStore
	carts   store.CartStore
	cfg     config.PricingConfig
	logger  zerolog.Logger

	// now is a clock hook for deterministic coupon expiry tests.
	now func() time.Time
}

// New creates a pricing engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(catalog store.CatalogStore, carts store.CartStore, cfg config.PricingConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		carts:   carts,
		cfg:     cfg,
		logger:  logger.With().Str("component", "pricing").Logger(),
		now:     time.Now,
	}
}

// CartTotal totals the user's cart at checkout: subtotal, coupon
// discount, tax on the discounted amount, and the final total. A
// missing or empty cart totals to zero. The discount is applied before
// tax; swapping that order would change every discounted total.
func (e *Engine) CartTotal(ctx context.Context, userID string, taxRate float64) (models.CartTotal, error) {
	defer metrics.ObserveQuery("cart_total", time.Now())

	cart, err := e.carts.FindOne(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.CartTotal{}, nil
	}
	if err != nil {
		return models.CartTotal{}, fmt.Errorf("cart total for %q: %w", userID, err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return models.CartTotal{}, nil
	}

	var subtotal float64
	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	total := models.CartTotal{Subtotal: round2(subtotal)}

	var discount float64
	if cart.Coupon != nil && cart.Coupon.ValidAt(e.now(), subtotal) {
		discount = subtotal * cart.Coupon.DiscountPercent / 100
		total.CouponApplied = true
		total.CouponCode = cart.Coupon.Code
	}

	discountedSubtotal := subtotal - discount
	tax := discountedSubtotal * taxRate

	total.Discount = round2(discount)
	total.Tax = round2(tax)
	total.Total = round2(discountedSubtotal + tax)

	return total, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
