// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package models defines the shared domain types of the merchandising core:
// interactions, catalog products, personalization profiles, carts and the
// result types returned by the scoring components.
//
// Models carry no behavior beyond simple accessors and validity checks.
// All mutation goes through the owning component (popularity scorer for
// Product.Popularity, pricing engine for Product.Price, profile updater
// for Profile).
package models
