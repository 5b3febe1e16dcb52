// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

package models

// StockoutUnbounded marks a stockout horizon that never arrives because
// the trailing sales velocity is zero.
const StockoutUnbounded = -1

// ReorderAdvice is the output of a reorder point calculation.
type ReorderAdvice struct {
	ProductID     int     `json:"product_id"`
	AvgDailySales float64 `json:"avg_daily_sales"`
	SafetyStock   float64 `json:"safety_stock"`
	ReorderPoint  int     `json:"reorder_point"`
	CurrentStock  int     `json:"current_stock"`
	ShouldReorder bool    `json:"should_reorder"`
}

// DemandForecast projects the trailing sales velocity forward.
type DemandForecast struct {
	ProductID        int     `json:"product_id"`
	Days             int     `json:"days"`
	AvgDailySales    float64 `json:"avg_daily_sales"`
	ForecastedDemand int     `json:"forecasted_demand"`

	// DaysUntilStockout is floor(stock / avgDailySales), or
	// StockoutUnbounded when avgDailySales is zero.
	DaysUntilStockout int `json:"days_until_stockout"`
}

// ReorderAlert annotates a product that should be reordered with its
// demand forecast.
type ReorderAlert struct {
	Product  Product        `json:"product"`
	Advice   ReorderAdvice  `json:"advice"`
	Forecast DemandForecast `json:"forecast"`
}
