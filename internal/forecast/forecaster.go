// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package forecast derives inventory signals from purchase interactions:
// rolling sales velocity, reorder points and demand forecasts. It never
// mutates stock; acting on an alert is a collaborator concern.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsignal/shopsignal/internal/config"
	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Forecaster computes inventory forecasts from the interaction log.
type Forecaster struct {
	catalog      store.CatalogStore
	interactions store.InteractionStore
	cfg          config.ForecastConfig
	logger       zerolog.Logger

	// now is a clock hook for deterministic tests.
	now func() time.Time
}

// New creates a forecaster.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(catalog store.CatalogStore, interactions store.InteractionStore, cfg config.ForecastConfig, logger zerolog.Logger) *Forecaster {
	return &Forecaster{
		catalog:      catalog,
		interactions: interactions,
		cfg:          cfg,
		logger:       logger.With().Str("component", "forecast").Logger(),
		now:          time.Now,
	}
}

// ReorderPoint computes the reorder threshold for a product from its
// trailing sales velocity. leadTimeDays <= 0 uses the configured default.
func (f *Forecaster) ReorderPoint(ctx context.Context, productID, leadTimeDays int) (models.ReorderAdvice, error) {
	if leadTimeDays <= 0 {
		leadTimeDays = f.cfg.DefaultLeadTimeDays
	}

	product, err := f.catalog.FindOne(ctx, productID)
	if err != nil {
		return models.ReorderAdvice{}, fmt.Errorf("reorder point for product %d: %w", productID, err)
	}

	avg, err := f.salesVelocity(ctx, productID)
	if err != nil {
		return models.ReorderAdvice{}, err
	}

	safetyStock := avg * float64(f.cfg.SafetyStockDays)
	reorderPoint := int(math.Ceil(avg*float64(leadTimeDays) + safetyStock))

	return models.ReorderAdvice{
		ProductID:     productID,
		AvgDailySales: avg,
		SafetyStock:   safetyStock,
		ReorderPoint:  reorderPoint,
		CurrentStock:  product.Stock,
		ShouldReorder: product.Stock < reorderPoint,
	}, nil
}

// ForecastDemand projects the trailing sales velocity forward over the
// given horizon. days <= 0 uses the velocity window length.
func (f *Forecaster) ForecastDemand(ctx context.Context, productID, days int) (models.DemandForecast, error) {
	if days <= 0 {
		days = f.cfg.VelocityWindowDays
	}

	product, err := f.catalog.FindOne(ctx, productID)
	if err != nil {
		return models.DemandForecast{}, fmt.Errorf("demand forecast for product %d: %w", productID, err)
	}

	avg, err := f.salesVelocity(ctx, productID)
	if err != nil {
		return models.DemandForecast{}, err
	}

	daysUntilStockout := models.StockoutUnbounded
	if avg > 0 {
		daysUntilStockout = int(float64(product.Stock) / avg)
	}

	return models.DemandForecast{
		ProductID:         productID,
		Days:              days,
		AvgDailySales:     avg,
		ForecastedDemand:  int(math.Ceil(avg * float64(days))),
		DaysUntilStockout: daysUntilStockout,
	}, nil
}

// ReorderAlerts scans the full catalog and returns every product whose
// stock sits below its reorder point, annotated with its forecast.
func (f *Forecaster) ReorderAlerts(ctx context.Context) ([]models.ReorderAlert, error) {
	products, err := f.catalog.Find(ctx, store.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("reorder alerts: %w", err)
	}

	var alerts []models.ReorderAlert
	for _, product := range products {
		advice, err := f.ReorderPoint(ctx, product.ID, 0)
		if err != nil {
			return nil, err
		}
		if !advice.ShouldReorder {
			continue
		}

		fc, err := f.ForecastDemand(ctx, product.ID, 0)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, models.ReorderAlert{
			Product:  product,
			Advice:   advice,
			Forecast: fc,
		})
	}

	f.logger.Debug().
		Int("catalog_size", len(products)).
		Int("alerts", len(alerts)).
		Msg("reorder scan complete")

	return alerts, nil
}

// salesVelocity returns average purchases per day over the trailing
// velocity window.
func (f *Forecaster) salesVelocity(ctx context.Context, productID int) (float64, error) {
	window := time.Duration(f.cfg.VelocityWindowDays) * 24 * time.Hour
	since := f.now().Add(-window)

	purchases, err := f.interactions.Find(ctx, store.InteractionFilter{
		ProductID: productID,
		Type:      models.InteractionPurchase,
		Since:     since,
	})
	if err != nil {
		return 0, fmt.Errorf("sales velocity for product %d: %w", productID, err)
	}

	return float64(len(purchases)) / float64(f.cfg.VelocityWindowDays), nil
}
