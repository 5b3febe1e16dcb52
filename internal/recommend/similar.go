// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/cache"
	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Similarity recommends products resembling a source product. The score
// blends category identity with price closeness; candidates priced too
// far from the source are dropped and the open slots backfilled with the
// most popular remaining items from the same category.
type Similarity struct {
	catalog store.CatalogStore
	cfg     config.RecommendConfig
	cache   cache.Cacher
	logger  zerolog.Logger
}

// NewSimilarity creates a similarity recommender. A nil Cacher disables
// read-side caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSimilarity(catalog store.CatalogStore, cfg config.RecommendConfig, c cache.Cacher, logger zerolog.Logger) *Similarity {
	return &Similarity{
		catalog: catalog,
		cfg:     cfg,
		cache:   c,
		logger:  logger.With().Str("component", "similarity").Logger(),
	}
}

// SimilarProducts returns up to limit products similar to the source
// product, ranked by descending similarity score. The source product is
// never included, and the result stays inside the source category: when
// the category holds fewer products than limit, the result comes up
// short. Returns store.ErrNotFound when the source is unknown.
func (s *Similarity) SimilarProducts(ctx context.Context, productID, limit int) ([]models.ScoredProduct, error) {
	defer metrics.ObserveQuery("similar", time.Now())

	if limit <= 0 {
		return nil, nil
	}

	key := cache.GenerateKey("similar", []int{productID, limit})
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues("similarity").Inc()
			return cached.([]models.ScoredProduct), nil
		}
		metrics.CacheMisses.WithLabelValues("similarity").Inc()
	}

	source, err := s.catalog.FindOne(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("similar products for %d: %w", productID, err)
	}

	candidates, err := s.catalog.Find(ctx, store.ProductFilter{
		Categories: []string{source.Category},
		ExcludeIDs: []int{source.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("similar candidates for %d: %w", productID, err)
	}

	scored := make([]models.ScoredProduct, 0, len(candidates))
	for _, candidate := range candidates {
		if !s.withinPriceBand(source.Price, candidate.Price) {
			continue
		}
		scored = append(scored, models.ScoredProduct{
			Product: candidate,
			Score:   s.similarityScore(source, candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Product.ID < scored[j].Product.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	if len(scored) < limit {
		scored = backfillByPopularity(scored, candidates, limit)
	}

	if s.cache != nil {
		s.cache.Set(key, scored)
	}

	return scored, nil
}

// similarityScore blends category identity with price closeness.
// Same-category candidates have a category term of 1 by construction.
func (s *Similarity) similarityScore(source, candidate models.Product) float64 {
	categoryTerm := 0.0
	if source.Category == candidate.Category {
		categoryTerm = 1.0
	}

	priceTerm := priceCloseness(source.Price, candidate.Price)
	score := s.cfg.CategoryWeight*categoryTerm + s.cfg.PriceWeight*priceTerm

	return round2(score)
}

// withinPriceBand reports whether candidate falls inside the ± band
// around the source price. A zero source price accepts everything.
func (s *Similarity) withinPriceBand(source, candidate float64) bool {
	if source <= 0 {
		return true
	}
	return candidate >= source*(1-s.cfg.PriceBand) && candidate <= source*(1+s.cfg.PriceBand)
}

// backfillByPopularity pads scored up to limit with the most popular
// candidates not already present, carrying their backfill scores as 0.
// Candidates are the remaining same-category items, so the result may
// stay short of limit.
func backfillByPopularity(scored []models.ScoredProduct, candidates []models.Product, limit int) []models.ScoredProduct {
	seen := make(map[int]struct{}, len(scored))
	for _, sp := range scored {
		seen[sp.Product.ID] = struct{}{}
	}

	rest := make([]models.Product, 0, len(candidates))
	for _, candidate := range candidates {
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		rest = append(rest, candidate)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Popularity != rest[j].Popularity {
			return rest[i].Popularity > rest[j].Popularity
		}
		return rest[i].ID < rest[j].ID
	})

	for _, product := range rest {
		if len(scored) >= limit {
			break
		}
		scored = append(scored, models.ScoredProduct{Product: product})
	}

	return scored
}

// priceCloseness maps two prices to [0,1]: 1 for identical prices,
// approaching 0 as they diverge.
func priceCloseness(a, b float64) float64 {
	if a == b {
		return 1
	}
	maxPrice := math.Max(a, b)
	if maxPrice <= 0 {
		return 1
	}
	return 1 - math.Abs(a-b)/maxPrice
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
