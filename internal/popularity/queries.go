// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package popularity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopsignal/shopsignal/internal/cache"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// BestSellers returns catalog items sorted by popularity descending,
// tie-broken by rating descending, then ascending id for a stable order.
func (s *Scorer) BestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	start := time.Now()
	defer metrics.ObserveQuery("bestsellers", start)

	cacheKey := cache.GenerateKey("bestsellers", limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			metrics.CacheHits.WithLabelValues("popularity").Inc()
			return cached.([]models.Product), nil
		}
		metrics.CacheMisses.WithLabelValues("popularity").Inc()
	}

	products, err := s.catalog.Find(ctx, store.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ID < b.ID
	})

	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, products)
	}
	return products, nil
}

// Trending weights interactions inside the lookback window by the base
// {1,5,10} scheme (no decay within the window), sums per product and
// returns the top products with their windowed score. Products without
// windowed interactions are excluded. A zero window uses the configured
// default.
func (s *Scorer) Trending(ctx context.Context, window time.Duration, limit int) ([]models.ScoredProduct, error) {
	start := time.Now()
	defer metrics.ObserveQuery("trending", start)

	if window <= 0 {
		window = s.cfg.TrendingWindow
	}

	cacheKey := cache.GenerateKey("trending", struct {
		Window time.Duration
		Limit  int
	}{window, limit})
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			metrics.CacheHits.WithLabelValues("popularity").Inc()
			return cached.([]models.ScoredProduct), nil
		}
		metrics.CacheMisses.WithLabelValues("popularity").Inc()
	}

	since := s.now().Add(-window)
	windowed, err := s.interactions.Find(ctx, store.InteractionFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("trending: scan interactions: %w", err)
	}

	scores := make(map[int]float64)
	for _, in := range windowed {
		scores[in.ProductID] += in.Type.Weight()
	}

	type productScore struct {
		id    int
		score float64
	}
	ranked := make([]productScore, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, productScore{id, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	results := make([]models.ScoredProduct, 0, len(ranked))
	for _, r := range ranked {
		if limit > 0 && len(results) >= limit {
			break
		}
		product, err := s.catalog.FindOne(ctx, r.id)
		if err != nil {
			// Interactions can outlive catalog records; skip orphans.
			s.logger.Debug().Int("product_id", r.id).Msg("trending product missing from catalog")
			continue
		}
		results = append(results, models.ScoredProduct{Product: product, Score: r.score})
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, results)
	}
	return results, nil
}
