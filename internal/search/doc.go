// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package search ranks catalog products against free-text queries.
// Queries are normalized and synonym-expanded before matching; each hit
// gets a 0-100 relevance score blending text match, popularity and
// rating, plus an exact-match boost for literal name hits. Zero-result
// queries get caller-visible fallbacks: spelling corrections from a
// static table and a popularity-ordered product list.
package search
