// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package config holds the layered configuration of the merchandising
// core. Every tunable constant of the scoring algorithms lives here so
// the components themselves stay free of magic numbers.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	Forecast  ForecastConfig  `koanf:"forecast"`
	Recommend RecommendConfig `koanf:"recommend"`
	Search    SearchConfig    `koanf:"search"`
	Pricing   PricingConfig   `koanf:"pricing"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	// Enabled toggles the /metrics listener.
	Enabled bool `koanf:"enabled"`

	// Addr is the listen address, e.g. ":9090".
	Addr string `koanf:"addr"`
}

// LoggingConfig controls the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig selects and configures the backing stores.
type DatabaseConfig struct {
	// Backend is "memory" or "duckdb".
	Backend string `koanf:"backend" validate:"oneof=memory duckdb"`

	// Path is the DuckDB database file (duckdb backend only).
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory use, e.g. "1GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`

	// ProfilePath is the Badger directory for profiles. Empty = in-memory.
	ProfilePath string `koanf:"profile_path"`
}

// ScoringConfig controls the popularity scorer.
type ScoringConfig struct {
	// DecayBase is the per-week decay multiplier applied to interaction
	// weights. 0.9 halves an interaction's contribution in ~6.6 weeks.
	DecayBase float64 `koanf:"decay_base" validate:"gt=0,lt=1"`

	// TrendingWindow is the default lookback for the trending query.
	TrendingWindow time.Duration `koanf:"trending_window" validate:"gt=0"`
}

// ForecastConfig controls the inventory forecaster.
type ForecastConfig struct {
	// VelocityWindowDays is the trailing window for sales velocity.
	VelocityWindowDays int `koanf:"velocity_window_days" validate:"min=1"`

	// SafetyStockDays is the demand buffer added to the reorder point.
	SafetyStockDays int `koanf:"safety_stock_days" validate:"min=0"`

	// DefaultLeadTimeDays is used when the caller supplies none.
	DefaultLeadTimeDays int `koanf:"default_lead_time_days" validate:"min=1"`
}

// RecommendConfig controls the similarity and personalized recommenders.
type RecommendConfig struct {
	// CategoryWeight and PriceWeight blend the similarity score.
	CategoryWeight float64 `koanf:"category_weight" validate:"gte=0,lte=1"`
	PriceWeight    float64 `koanf:"price_weight" validate:"gte=0,lte=1"`

	// PriceBand is the ± fraction around the source price that candidates
	// must fall into before backfilling kicks in.
	PriceBand float64 `koanf:"price_band" validate:"gt=0,lt=1"`

	// TopCategories is how many profile categories feed personalization.
	TopCategories int `koanf:"top_categories" validate:"min=1"`

	// PriceRangeLow/High widen the profile's observed price range when
	// querying candidates.
	PriceRangeLow  float64 `koanf:"price_range_low" validate:"gt=0,lte=1"`
	PriceRangeHigh float64 `koanf:"price_range_high" validate:"gte=1"`

	// ViewedHistoryCap bounds the profile's viewed-product list.
	ViewedHistoryCap int `koanf:"viewed_history_cap" validate:"min=1"`
}

// SearchConfig controls the search ranker.
type SearchConfig struct {
	// TextWeight, PopularityWeight and RatingWeight blend the 0-100
	// relevance score. They should sum to 1.
	TextWeight       float64 `koanf:"text_weight" validate:"gte=0,lte=1"`
	PopularityWeight float64 `koanf:"popularity_weight" validate:"gte=0,lte=1"`
	RatingWeight     float64 `koanf:"rating_weight" validate:"gte=0,lte=1"`

	// ExactMatchBoost is the maximum boost for literal name matches.
	ExactMatchBoost float64 `koanf:"exact_match_boost" validate:"gte=0"`

	// TextScoreCeiling and PopularityCeiling normalize raw inputs.
	TextScoreCeiling  float64 `koanf:"text_score_ceiling" validate:"gt=0"`
	PopularityCeiling float64 `koanf:"popularity_ceiling" validate:"gt=0"`
}

// PricingConfig controls the dynamic pricing rules.
type PricingConfig struct {
	// ScarcityThreshold: stock below averageStock*threshold is scarce.
	ScarcityThreshold float64 `koanf:"scarcity_threshold" validate:"gt=0,lt=1"`

	// GlutThreshold: stock above averageStock*threshold is a glut.
	GlutThreshold float64 `koanf:"glut_threshold" validate:"gt=0,lte=1"`

	// CompetitorBand is the ± fraction around the competitor mean the
	// working price is clamped into.
	CompetitorBand float64 `koanf:"competitor_band" validate:"gt=0,lt=1"`

	// DefaultCostRatio estimates the cost floor when CostPrice is unset.
	DefaultCostRatio float64 `koanf:"default_cost_ratio" validate:"gt=0,lt=1"`
}

// CacheConfig controls the injected TTL caches.
type CacheConfig struct {
	// Enabled toggles read-side caching entirely.
	Enabled bool `koanf:"enabled"`

	// TTL is the default entry lifetime.
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`
}

// EventsConfig controls the fire-and-forget dispatcher.
type EventsConfig struct {
	// BufferSize is the gochannel Pub/Sub buffer per subscriber.
	BufferSize int `koanf:"buffer_size" validate:"min=0"`

	// CloseTimeout is how long to wait for in-flight handlers on shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout" validate:"gt=0"`

	// Breaker protects catalog saves on the recompute path.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for score persistence.
type BreakerConfig struct {
	// FailureThreshold is consecutive failures before the breaker opens.
	FailureThreshold uint32 `koanf:"failure_threshold" validate:"min=1"`

	// OpenTimeout is how long the breaker stays open before half-open.
	OpenTimeout time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

// Default returns a Config with all spec defaults applied.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Backend:   "memory",
			Path:      "/data/shopsignal.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Scoring: ScoringConfig{
			DecayBase:      0.9,
			TrendingWindow: 7 * 24 * time.Hour,
		},
		Forecast: ForecastConfig{
			VelocityWindowDays:  30,
			SafetyStockDays:     7,
			DefaultLeadTimeDays: 7,
		},
		Recommend: RecommendConfig{
			CategoryWeight:   0.6,
			PriceWeight:      0.4,
			PriceBand:        0.3,
			TopCategories:    3,
			PriceRangeLow:    0.8,
			PriceRangeHigh:   1.2,
			ViewedHistoryCap: 200,
		},
		Search: SearchConfig{
			TextWeight:        0.5,
			PopularityWeight:  0.3,
			RatingWeight:      0.2,
			ExactMatchBoost:   20,
			TextScoreCeiling:  10,
			PopularityCeiling: 10000,
		},
		Pricing: PricingConfig{
			ScarcityThreshold: 0.2,
			GlutThreshold:     0.8,
			CompetitorBand:    0.05,
			DefaultCostRatio:  0.6,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Events: EventsConfig{
			BufferSize:   1024,
			CloseTimeout: 30 * time.Second,
			Breaker: BreakerConfig{
				FailureThreshold: 5,
				OpenTimeout:      30 * time.Second,
			},
		},
	}
}

// Validate checks the configuration with validator/v10 plus the
// cross-field rules a tag cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Pricing.ScarcityThreshold >= c.Pricing.GlutThreshold {
		return fmt.Errorf("config validation: pricing.scarcity_threshold (%v) must be below pricing.glut_threshold (%v)",
			c.Pricing.ScarcityThreshold, c.Pricing.GlutThreshold)
	}
	if c.Recommend.PriceRangeLow > c.Recommend.PriceRangeHigh {
		return fmt.Errorf("config validation: recommend.price_range_low must not exceed recommend.price_range_high")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config validation: metrics.addr is required when metrics are enabled")
	}
	if c.Database.Backend == "duckdb" && c.Database.Path == "" {
		return fmt.Errorf("config validation: database.path is required for the duckdb backend")
	}

	return nil
}
