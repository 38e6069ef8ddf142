// Package simulation implements the deterministic what-if profit simulator
// behind the dashboard sliders. No forecasting models are involved; the
// output is a pure function of the inputs and the live base price.
package simulation

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid simulation input")

const (
	// BaseYieldKg is the assumed yield per acre when crop-specific data
	// is unavailable.
	BaseYieldKg = 1000.0
	// RainfallSensitivity is the linear rainfall-to-yield coefficient.
	RainfallSensitivity = 0.5
	// FallbackBasePrice (₹/kg) is used when no live mandi data exists.
	FallbackBasePrice = 20.0
)

// Inputs are the slider-driven simulation parameters.
type Inputs struct {
	RainfallPercent    float64 `json:"rainfall_percent"`
	MarketPricePercent float64 `json:"market_price_percent"`
	LandSizeAcres      float64 `json:"land_size"`
	FertilizerCost     float64 `json:"fertilizer_cost"`
	LabourCost         float64 `json:"labour_cost"`
}

// Validate checks slider ranges: percents in [-100, 100], costs and land
// size non-negative.
func (in Inputs) Validate() error {
	if in.RainfallPercent < -100 || in.RainfallPercent > 100 {
		return fmt.Errorf("%w: rainfall_percent %v out of [-100,100]", ErrInvalidInput, in.RainfallPercent)
	}
	if in.MarketPricePercent < -100 || in.MarketPricePercent > 100 {
		return fmt.Errorf("%w: market_price_percent %v out of [-100,100]", ErrInvalidInput, in.MarketPricePercent)
	}
	if in.LandSizeAcres < 0 {
		return fmt.Errorf("%w: land_size must be non-negative", ErrInvalidInput)
	}
	if in.FertilizerCost < 0 || in.LabourCost < 0 {
		return fmt.Errorf("%w: costs must be non-negative", ErrInvalidInput)
	}
	return nil
}

// Result carries every intermediate value for transparency in the UI.
type Result struct {
	BasePrice       float64 `json:"base_price"`
	AdjustedPrice   float64 `json:"adjusted_price"`
	RainfallFactor  float64 `json:"rainfall_factor"`
	AdjustedYieldKg float64 `json:"adjusted_yield"`
	GrossRevenue    float64 `json:"gross_revenue"`
	TotalCost       float64 `json:"total_cost"`
	PredictedProfit float64 `json:"predicted_profit"`
}

// Run executes the profit simulation for a base price in ₹/kg.
func Run(basePrice float64, in Inputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if basePrice <= 0 {
		basePrice = FallbackBasePrice
	}

	adjustedPrice := basePrice * (1 + in.MarketPricePercent/100)
	rainfallFactor := 1 + in.RainfallPercent/100*RainfallSensitivity
	adjustedYield := BaseYieldKg * rainfallFactor

	totalCost := in.FertilizerCost + in.LabourCost
	grossRevenue := adjustedPrice * adjustedYield * in.LandSizeAcres

	return Result{
		BasePrice:       round2(basePrice),
		AdjustedPrice:   round2(adjustedPrice),
		RainfallFactor:  round4(rainfallFactor),
		AdjustedYieldKg: round2(adjustedYield),
		GrossRevenue:    round2(grossRevenue),
		TotalCost:       round2(totalCost),
		PredictedProfit: round2(grossRevenue - totalCost),
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
