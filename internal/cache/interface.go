// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package cache provides a thread-safe in-memory TTL cache behind an
// explicit interface. Components that want caching take a Cacher in their
// constructor; a nil Cacher disables caching. There is no package-level
// singleton, and invalidation is always explicit (Delete/Clear).
package cache

import "time"

// Cacher defines the interface for cache implementations.
//
// Usage:
//
//	var c Cacher = cache.New(5 * time.Minute)
//	c.Set("key", value)
//	if val, ok := c.Get("key"); ok {
//	    // Use cached value
//	}
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64
}

// Compile-time interface check.
var _ Cacher = (*Cache)(nil)
