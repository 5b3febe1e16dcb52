// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/metrics"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/popularity"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Personalizer recommends products matched to a user's taste profile.
// Users without a profile fall back to the global best sellers.
type Personalizer struct {
	catalog  store.CatalogStore
	profiles store.ProfileStore
	scorer   *popularity.Scorer
	cfg      config.RecommendConfig
	logger   zerolog.Logger
}

// NewPersonalizer creates a personalized recommender.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPersonalizer(catalog store.CatalogStore, profiles store.ProfileStore, scorer *popularity.Scorer, cfg config.RecommendConfig, logger zerolog.Logger) *Personalizer {
	return &Personalizer{
		catalog:  catalog,
		profiles: profiles,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger.With().Str("component", "personalizer").Logger(),
	}
}

// Recommend returns up to limit products for the user: candidates from
// the profile's top categories inside its widened price range, viewed
// products excluded, ranked by popularity then rating. Cold-start users
// (no profile, or a profile with no category signal) get best sellers.
func (p *Personalizer) Recommend(ctx context.Context, userID string, limit int) ([]models.Product, error) {
	defer metrics.ObserveQuery("personalized", time.Now())

	if limit <= 0 {
		return nil, nil
	}

	profile, err := p.profiles.FindOne(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Debug().Str("user_id", userID).Msg("cold start, serving best sellers")
		return p.scorer.BestSellers(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("personalized recommend for %q: %w", userID, err)
	}

	categories := profile.TopCategories(p.cfg.TopCategories)
	if len(categories) == 0 {
		return p.scorer.BestSellers(ctx, limit)
	}

	filter := store.ProductFilter{
		Categories: categories,
		ExcludeIDs: profile.ViewedProducts,
	}
	if profile.PriceRange.Max > 0 {
		filter.MinPrice = profile.PriceRange.Min * p.cfg.PriceRangeLow
		filter.MaxPrice = profile.PriceRange.Max * p.cfg.PriceRangeHigh
	}

	candidates, err := p.catalog.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("personalized candidates for %q: %w", userID, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ID < b.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if len(candidates) < limit {
		candidates, err = p.backfill(ctx, candidates, limit, profile.ViewedProducts)
		if err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

// backfill pads the result with best sellers the user has neither been
// recommended already nor viewed.
func (p *Personalizer) backfill(ctx context.Context, result []models.Product, limit int, viewed []int) ([]models.Product, error) {
	seen := make(map[int]struct{}, len(result)+len(viewed))
	for _, product := range result {
		seen[product.ID] = struct{}{}
	}
	for _, id := range viewed {
		seen[id] = struct{}{}
	}

	best, err := p.scorer.BestSellers(ctx, limit+len(seen))
	if err != nil {
		return nil, fmt.Errorf("personalized backfill: %w", err)
	}

	for _, product := range best {
		if len(result) >= limit {
			break
		}
		if _, dup := seen[product.ID]; dup {
			continue
		}
		seen[product.ID] = struct{}{}
		result = append(result, product)
	}

	return result, nil
}
