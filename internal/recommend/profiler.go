// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Profiler maintains per-user taste profiles from view events.
type Profiler struct {
	profiles store.ProfileStore
	cfg      config.RecommendConfig
	logger   zerolog.Logger

	// now is a clock hook for deterministic tests.
	now func() time.Time
}

// NewProfiler creates a profile updater.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfiler(profiles store.ProfileStore, cfg config.RecommendConfig, logger zerolog.Logger) *Profiler {
	return &Profiler{
		profiles: profiles,
		cfg:      cfg,
		logger:   logger.With().Str("component", "profiler").Logger(),
		now:      time.Now,
	}
}

// RecordView folds a view interaction into the user's profile, creating
// the profile lazily on first view. Non-view interactions are ignored.
func (p *Profiler) RecordView(ctx context.Context, interaction models.Interaction) error {
	if interaction.Type != models.InteractionView {
		return nil
	}

	profile, err := p.profiles.FindOne(ctx, interaction.UserID)
	if errors.Is(err, store.ErrNotFound) {
		profile = models.NewProfile(interaction.UserID)
	} else if err != nil {
		return fmt.Errorf("load profile %q: %w", interaction.UserID, err)
	}

	p.applyView(profile, interaction)

	if err := p.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile %q: %w", interaction.UserID, err)
	}

	p.logger.Debug().
		Str("user_id", interaction.UserID).
		Int("product_id", interaction.ProductID).
		Int("viewed_count", len(profile.ViewedProducts)).
		Msg("profile updated")

	return nil
}

// applyView mutates the profile in place: distinct viewed ids with a
// bounded FIFO history, category view counts, and a price range widened
// to include the viewed price.
func (p *Profiler) applyView(profile *models.Profile, interaction models.Interaction) {
	if !profile.HasViewed(interaction.ProductID) {
		profile.ViewedProducts = append(profile.ViewedProducts, interaction.ProductID)
		if len(profile.ViewedProducts) > p.cfg.ViewedHistoryCap {
			over := len(profile.ViewedProducts) - p.cfg.ViewedHistoryCap
			profile.ViewedProducts = profile.ViewedProducts[over:]
		}
	}

	if interaction.Category != "" {
		profile.CategoryViews[interaction.Category]++
	}

	if interaction.Price > 0 {
		if profile.PriceRange.Min == 0 || interaction.Price < profile.PriceRange.Min {
			profile.PriceRange.Min = interaction.Price
		}
		if interaction.Price > profile.PriceRange.Max {
			profile.PriceRange.Max = interaction.Price
		}
	}

	profile.UpdatedAt = p.now()
}
