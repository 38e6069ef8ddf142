package decision

import (
	"errors"
	"fmt"
	"math"

	"CropCompass/internal/model"
)

// ErrInvalidInput indicates a caller contract violation (non-positive price
// or quantity, negative rates).
var ErrInvalidInput = errors.New("invalid projection input")

// Defaults applied when the corresponding parameter is zero.
const (
	DefaultCostRatio             = 0.6
	DefaultStorageRatePerKgMonth = 1.5
	DefaultVolatility            = 0.12
)

// Risk band thresholds over volatility expressed in percent.
const (
	lowRiskMaxPct    = 8.0
	mediumRiskMaxPct = 15.0
)

// GrowthPolicy is the declared price-growth heuristic per horizon. It is a
// replaceable default policy: no model stands behind the exact multipliers.
type GrowthPolicy struct {
	ThreeMonth float64
	SixMonth   float64
}

// DefaultGrowthPolicy returns the standard +5%/+10% linear heuristic.
func DefaultGrowthPolicy() GrowthPolicy {
	return GrowthPolicy{ThreeMonth: 1.05, SixMonth: 1.10}
}

// ProjectionParams are the inputs to Project. Zero-valued CostRatio,
// StorageRate and Volatility take the documented defaults; a zero Growth
// takes DefaultGrowthPolicy. ShockPenalty is an optional extra confidence
// deduction (e.g. a weather alert) and is clamped with the rest.
type ProjectionParams struct {
	CurrentPrice float64
	Quantity     float64
	CostRatio    float64
	StorageRate  float64 // ₹ per kg per month
	Volatility   float64
	ShockPenalty float64
	Growth       GrowthPolicy
}

func (p *ProjectionParams) applyDefaults() {
	if p.CostRatio == 0 {
		p.CostRatio = DefaultCostRatio
	}
	if p.StorageRate == 0 {
		p.StorageRate = DefaultStorageRatePerKgMonth
	}
	if p.Volatility == 0 {
		p.Volatility = DefaultVolatility
	}
	if p.Growth == (GrowthPolicy{}) {
		p.Growth = DefaultGrowthPolicy()
	}
}

func (p *ProjectionParams) validate() error {
	if p.CurrentPrice <= 0 || math.IsNaN(p.CurrentPrice) {
		return fmt.Errorf("%w: current price must be positive, got %v", ErrInvalidInput, p.CurrentPrice)
	}
	if p.Quantity <= 0 || math.IsNaN(p.Quantity) {
		return fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidInput, p.Quantity)
	}
	if p.CostRatio < 0 || p.StorageRate < 0 || p.Volatility < 0 || p.ShockPenalty < 0 {
		return fmt.Errorf("%w: ratios and rates must be non-negative", ErrInvalidInput)
	}
	return nil
}

// Project produces the multi-horizon sell/hold projection for one crop lot.
// Values are returned at full precision; presentation layers round.
func Project(p ProjectionParams) (model.ProjectionResult, error) {
	p.applyDefaults()
	if err := p.validate(); err != nil {
		return model.ProjectionResult{}, err
	}

	price3m := p.CurrentPrice * p.Growth.ThreeMonth
	price6m := p.CurrentPrice * p.Growth.SixMonth

	estimatedCost := p.Quantity * p.CurrentPrice * p.CostRatio
	breakEven := estimatedCost / p.Quantity

	storage3m := p.Quantity * p.StorageRate * 3
	storage6m := p.Quantity * p.StorageRate * 6

	profitNow := p.Quantity*p.CurrentPrice - estimatedCost
	profit3m := p.Quantity*price3m - estimatedCost - storage3m
	profit6m := p.Quantity*price6m - estimatedCost - storage6m

	risk := riskLevel(p.Volatility)

	res := model.ProjectionResult{
		CurrentPrice:   p.CurrentPrice,
		Price3M:        price3m,
		Price6M:        price6m,
		Price3MRange:   volatilityBand(price3m, p.Volatility),
		Price6MRange:   volatilityBand(price6m, p.Volatility),
		BreakEvenPrice: breakEven,
		ProfitNow:      profitNow,
		Profit3M:       profit3m,
		Profit6M:       profit6m,
		StorageCost3M:  storage3m,
		StorageCost6M:  storage6m,
		RiskLevel:      risk,
		Confidence:     confidence(p.Volatility, p.ShockPenalty),
	}
	res.Recommendation = recommend(res)
	return res, nil
}

func volatilityBand(price, volatility float64) model.PriceRange {
	return model.PriceRange{Low: price * (1 - volatility), High: price * (1 + volatility)}
}

func riskLevel(volatility float64) model.RiskLevel {
	pct := volatility * 100
	switch {
	case pct < lowRiskMaxPct:
		return model.RiskLow
	case pct <= mediumRiskMaxPct:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// confidence starts at 75 and subtracts penalties, clamped to [0,100].
func confidence(volatility, shockPenalty float64) float64 {
	conf := 75.0
	if volatility*100 > mediumRiskMaxPct {
		conf -= 10
	}
	conf -= shockPenalty
	return math.Max(0, math.Min(100, conf))
}

// recommend applies the sell/hold policy. Rule order matters: the first
// matching rule wins.
func recommend(r model.ProjectionResult) string {
	switch {
	case r.CurrentPrice < r.BreakEvenPrice:
		return fmt.Sprintf("Current price ₹%.2f/kg is below your break-even of ₹%.2f/kg. Selling now locks in a loss; review production costs before committing.", r.CurrentPrice, r.BreakEvenPrice)
	case r.Price3M < r.BreakEvenPrice && r.Price6M < r.BreakEvenPrice:
		return "Projected prices stay below break-even across both horizons. Sell now to minimize losses rather than paying storage on a declining position."
	case r.RiskLevel == model.RiskHigh:
		return "Volatility is high. Split the sale: sell part of the lot now and hold the remainder to spread price risk."
	case r.Profit6M > r.Profit3M && r.Profit6M > r.ProfitNow:
		return fmt.Sprintf("Hold for 6 months. Projected profit ₹%.2f exceeds selling now (₹%.2f) even after storage costs.", r.Profit6M, r.ProfitNow)
	case r.Profit3M > r.ProfitNow:
		return fmt.Sprintf("Hold for 3 months. Projected profit ₹%.2f exceeds selling now (₹%.2f) after storage costs.", r.Profit3M, r.ProfitNow)
	default:
		return "Sell now. Waiting does not improve projected profit once storage costs are counted."
	}
}
