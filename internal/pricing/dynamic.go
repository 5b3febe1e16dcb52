// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package pricing

import (
	"context"
	"fmt"

	"github.com/shopsignal/shopsignal/internal/models"
)

// Price adjustment reasons, chosen by re-checking the stock thresholds
// against the final outcome rather than tracking which rule fired.
const (
	ReasonHighDemand  = "High demand - low stock"
	ReasonLowDemand   = "Low demand - high stock"
	ReasonCompetitive = "Competitive pricing adjustment"
	ReasonNoChange    = "No change"
)

// MarketInput carries the external market signals for a dynamic
// pricing pass.
type MarketInput struct {
	// AverageStock is the mean stock level across comparable products.
	AverageStock float64 `json:"average_stock" validate:"gt=0"`

	// CompetitorPrices, when non-empty, clamp the working price to a
	// band around their mean.
	CompetitorPrices []float64 `json:"competitor_prices,omitempty"`

	// DemandMultiplier scales the scarcity raise. 0 = baseline demand.
	DemandMultiplier float64 `json:"demand_multiplier" validate:"gte=0"`
}

// ApplyDynamicPricing recomputes one product's price from its stock
// position and the supplied market signals, persists the new price when
// it actually changed and reports the outcome. The cost floor is applied
// last and overrides every prior adjustment.
func (e *Engine) ApplyDynamicPricing(ctx context.Context, productID int, input MarketInput) (models.PriceAdjustment, error) {
	product, err := e.catalog.FindOne(ctx, productID)
	if err != nil {
		return models.PriceAdjustment{}, fmt.Errorf("dynamic pricing for product %d: %w", productID, err)
	}

	current := product.Price
	price := current
	stock := float64(product.Stock)

	scarce := input.AverageStock > 0 && stock < input.AverageStock*e.cfg.ScarcityThreshold
	glut := input.AverageStock > 0 && stock > input.AverageStock*e.cfg.GlutThreshold

	switch {
	case scarce:
		price *= 1 + (0.1 + input.DemandMultiplier*0.1)
	case glut:
		price *= 1 - (0.1 + 0.2*stock/input.AverageStock)
	}

	if len(input.CompetitorPrices) > 0 {
		mean := meanOf(input.CompetitorPrices)
		if upper := mean * (1 + e.cfg.CompetitorBand); price > upper {
			price = upper
		} else if lower := mean * (1 - e.cfg.CompetitorBand); price < lower {
			price = lower
		}
	}

	floor := product.CostPrice
	if floor <= 0 {
		floor = current * e.cfg.DefaultCostRatio
	}
	if price < floor {
		price = floor
	}

	price = round2(price)

	adjustment := models.PriceAdjustment{
		ProductID:     productID,
		PreviousPrice: current,
		NewPrice:      price,
		Changed:       price != current,
		Reason:        reason(price, current, scarce, glut),
	}

	if adjustment.Changed {
		product.Price = price
		if err := e.catalog.Save(ctx, product); err != nil {
			return models.PriceAdjustment{}, fmt.Errorf("persist price for product %d: %w", productID, err)
		}
		e.logger.Info().
			Int("product_id", productID).
			Float64("previous_price", current).
			Float64("new_price", price).
			Str("reason", adjustment.Reason).
			Msg("price adjusted")
	}

	return adjustment, nil
}

// reason derives the human-readable adjustment reason from the final
// outcome and the stock thresholds.
func reason(price, current float64, scarce, glut bool) string {
	if price == current {
		return ReasonNoChange
	}
	switch {
	case scarce:
		return ReasonHighDemand
	case glut:
		return ReasonLowDemand
	default:
		return ReasonCompetitive
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
