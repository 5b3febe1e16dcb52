// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package pricing implements checkout cart arithmetic and rule-based
// dynamic price adjustments. Cart totals apply the coupon discount
// before tax; that ordering is load-bearing. Dynamic pricing reacts to
// stock scarcity and glut, clamps to the competitor price band and
// floors at cost last.
package pricing
