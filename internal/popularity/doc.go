// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package popularity computes time-decayed popularity scores from the
// interaction log and answers the best-sellers and trending queries.
//
// A recompute always rescans the product's full interaction history and
// produces an idempotent result; concurrent recomputes for the same
// product converge to the same value, so last-write-wins persistence is
// safe (redundant work under load is an accepted cost, not a bug).
package popularity
