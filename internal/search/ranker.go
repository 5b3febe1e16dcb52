// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/cache"
	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/popularity"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Filter bounds a search to a category and/or price range. Zero values
// mean "no constraint".
type Filter struct {
	Category string
	MinPrice float64
	MaxPrice float64
}

// Ranker scores catalog products against free-text queries.
type Ranker struct {
	catalog store.CatalogStore
	scorer  *popularity.Scorer
	cfg     config.SearchConfig
	cache   cache.Cacher
	logger  zerolog.Logger
}

// NewRanker creates a search ranker. A nil Cacher disables caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(catalog store.CatalogStore, scorer *popularity.Scorer, cfg config.SearchConfig, c cache.Cacher, logger zerolog.Logger) *Ranker {
	return &Ranker{
		catalog: catalog,
		scorer:  scorer,
		cfg:     cfg,
		cache:   c,
		logger:  logger.With().Str("component", "search").Logger(),
	}
}

// Search ranks products matching the query, best first. A blank query
// returns the full filtered catalog with every score 0 and no ranking.
func (r *Ranker) Search(ctx context.Context, query string, filter Filter) ([]models.ScoredProduct, error) {
	defer metrics.ObserveQuery("search", time.Now())

	normalized := normalize(query)

	key := cache.GenerateKey("search", []interface{}{normalized, filter})
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues("search").Inc()
			return cached.([]models.ScoredProduct), nil
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	candidates, err := r.catalog.Find(ctx, productFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var results []models.ScoredProduct
	if normalized == "" {
		results = make([]models.ScoredProduct, 0, len(candidates))
		for _, product := range candidates {
			results = append(results, models.ScoredProduct{Product: product})
		}
	} else {
		results = r.rank(candidates, normalized)
	}

	if r.cache != nil {
		r.cache.Set(key, results)
	}

	r.logger.Debug().
		Str("query", normalized).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Msg("search ranked")

	return results, nil
}

// rank scores every candidate that matches at least one expanded term
// and sorts the hits by descending relevance.
func (r *Ranker) rank(candidates []models.Product, normalized string) []models.ScoredProduct {
	original := terms(normalized)
	expanded := expand(original)

	results := make([]models.ScoredProduct, 0, len(candidates))
	for _, product := range candidates {
		textScore := r.textScore(product, expanded)
		if textScore == 0 {
			continue
		}
		results = append(results, models.ScoredProduct{
			Product: product,
			Score:   r.relevance(product, textScore, original),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// textScore is the raw 0..ceiling match strength: each expanded term
// scores 2 for a name hit and 1 for a description hit.
func (r *Ranker) textScore(product models.Product, expanded []string) float64 {
	name := strings.ToLower(product.Name)
	description := strings.ToLower(product.Description)

	var score float64
	for _, term := range expanded {
		if strings.Contains(name, term) {
			score += 2
		}
		if strings.Contains(description, term) {
			score++
		}
	}
	if score > r.cfg.TextScoreCeiling {
		score = r.cfg.TextScoreCeiling
	}
	return score
}

// relevance blends text match, popularity and rating into a 0-100 score,
// adds the exact-match boost and clamps at 100.
func (r *Ranker) relevance(product models.Product, textScore float64, original []string) float64 {
	score := r.cfg.TextWeight*normalizeTo100(textScore, r.cfg.TextScoreCeiling) +
		r.cfg.PopularityWeight*normalizeTo100(float64(product.Popularity), r.cfg.PopularityCeiling) +
		r.cfg.RatingWeight*(product.Rating/5*100)

	score += r.exactMatchBoost(product, original)

	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// exactMatchBoost scales the boost by the fraction of the original
// (un-expanded) query terms that literally appear in the product name.
func (r *Ranker) exactMatchBoost(product models.Product, original []string) float64 {
	if len(original) == 0 {
		return 0
	}
	name := strings.ToLower(product.Name)
	matched := 0
	for _, term := range original {
		if strings.Contains(name, term) {
			matched++
		}
	}
	return r.cfg.ExactMatchBoost * float64(matched) / float64(len(original))
}

// normalizeTo100 maps value from [0, ceiling] onto [0, 100], clamped.
func normalizeTo100(value, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	if value > ceiling {
		value = ceiling
	}
	return value / ceiling * 100
}

func productFilter(f Filter) store.ProductFilter {
	pf := store.ProductFilter{
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	}
	if f.Category != "" {
		pf.Categories = []string{f.Category}
	}
	return pf
}
