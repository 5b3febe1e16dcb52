// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package recommend produces product recommendations from two signals:
// content similarity (category plus price closeness) and per-user taste
// profiles built from view events. Both recommenders backfill from the
// popularity ranking so the requested result size is met whenever the
// catalog allows it.
package recommend
