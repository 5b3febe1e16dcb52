// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package events records behavioral interactions and drives the two
// fire-and-forget side effects of ingestion: popularity recompute and
// personalization profile updates. Recording returns to the caller as
// soon as the interaction is validated and appended; the side effects
// run on an in-process Watermill router whose handler failures are
// logged and acked, never propagated and never retried.
package events
