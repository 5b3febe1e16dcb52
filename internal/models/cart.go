// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package models

import "time"

// CartItem is one line of a cart snapshot.
type CartItem struct {
	ProductID int     `json:"product_id" validate:"required"`
	Price     float64 `json:"price" validate:"min=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
}

// Coupon is an optional discount attached to a cart.
// It applies only while unexpired and, when MinPurchase is set,
// only if the cart subtotal reaches that threshold.
type Coupon struct {
	Code            string    `json:"code" validate:"required"`
	DiscountPercent float64   `json:"discount_percent" validate:"gt=0,lte=100"`
	MinPurchase     float64   `json:"min_purchase,omitempty" validate:"min=0"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

// ValidAt reports whether the coupon is applicable at the given instant
// for the given subtotal.
func (c Coupon) ValidAt(now time.Time, subtotal float64) bool {
	if !c.ExpiryDate.IsZero() && c.ExpiryDate.Before(now) {
		return false
	}
	if c.MinPurchase > 0 && subtotal < c.MinPurchase {
		return false
	}
	return true
}

// CartSnapshot is a read-only view of a user's cart at checkout time.
// The cart collaborator owns it; the pricing engine never mutates it.
type CartSnapshot struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
	Coupon *Coupon    `json:"coupon,omitempty"`
}

// CartTotal is the output of the pricing engine's checkout arithmetic.
// All monetary fields are rounded to 2 decimals.
type CartTotal struct {
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	CouponApplied bool    `json:"coupon_applied"`
	CouponCode    string  `json:"coupon_code,omitempty"`
}

// PriceAdjustment reports the outcome of a dynamic pricing pass.
type PriceAdjustment struct {
	ProductID     int     `json:"product_id"`
	PreviousPrice float64 `json:"previous_price"`
	NewPrice      float64 `json:"new_price"`
	Changed       bool    `json:"changed"`
	Reason        string  `json:"reason"`
}
