// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package popularity

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/cache"
	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// hoursPerWeek converts elapsed time to whole weeks for the decay factor.
const hoursPerWeek = 7 * 24

// Scorer recomputes popularity scores and serves popularity-ranked
// queries. Safe for concurrent use.
type Scorer struct {
	catalog      store.CatalogStore
	interactions store.InteractionStore
	cfg          config.ScoringConfig
	cache        cache.Cacher // nil disables caching
	logger       zerolog.Logger

	// now is a clock hook for deterministic tests.
	now func() time.Time
}

// NewScorer creates a popularity scorer. A nil cache disables read-side
// caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(catalog store.CatalogStore, interactions store.InteractionStore, cfg config.ScoringConfig, c cache.Cacher, logger zerolog.Logger) *Scorer {
	return &Scorer{
		catalog:      catalog,
		interactions: interactions,
		cfg:          cfg,
		cache:        c,
		logger:       logger.With().Str("component", "popularity").Logger(),
		now:          time.Now,
	}
}

// Recompute rescans the product's full interaction history, derives the
// decayed score and persists it on the catalog record. Returns the new
// score.
//
// The score is sum(baseWeight * decayBase^weeks) over all interactions,
// rounded to the nearest integer and floored at 1. A product with no
// interactions gets the floor score of 1.
func (s *Scorer) Recompute(ctx context.Context, productID int) (int, error) {
	start := s.now()

	product, err := s.catalog.FindOne(ctx, productID)
	if err != nil {
		metrics.RecomputeTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("recompute popularity for product %d: %w", productID, err)
	}

	history, err := s.interactions.Find(ctx, store.InteractionFilter{ProductID: productID})
	if err != nil {
		metrics.RecomputeTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("scan interactions for product %d: %w", productID, err)
	}

	score := s.score(history, start)

	if product.Popularity != score {
		product.Popularity = score
		if err := s.catalog.Save(ctx, product); err != nil {
			metrics.RecomputeTotal.WithLabelValues("error").Inc()
			return 0, fmt.Errorf("persist popularity for product %d: %w", productID, err)
		}
		s.invalidate()
	}

	metrics.RecomputeTotal.WithLabelValues("ok").Inc()
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug().
		Int("product_id", productID).
		Int("interactions", len(history)).
		Int("score", score).
		Msg("popularity recomputed")

	return score, nil
}

// score folds the interaction history into a single decayed integer.
func (s *Scorer) score(history []models.Interaction, now time.Time) int {
	if len(history) == 0 {
		return 1
	}

	total := 0.0
	for _, in := range history {
		weeks := wholeWeeks(in.Timestamp, now)
		decay := math.Pow(s.cfg.DecayBase, float64(weeks))
		total += in.Type.Weight() * decay
	}

	score := int(math.Round(total))
	if score < 1 {
		score = 1
	}
	return score
}

// wholeWeeks returns the floor of complete weeks between ts and now.
// Negative spans (future timestamps) count as zero weeks.
func wholeWeeks(ts, now time.Time) int {
	hours := now.Sub(ts).Hours()
	if hours <= 0 {
		return 0
	}
	return int(hours / hoursPerWeek)
}

// invalidate drops the cached popularity-ranked query results after a
// score changes.
func (s *Scorer) invalidate() {
	if s.cache == nil {
		return
	}
	s.cache.Clear()
}
