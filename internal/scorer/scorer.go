package scorer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"CropCompass/internal/geo"
	"CropCompass/internal/model"
)

var (
	// ErrInvalidQuantity indicates a non-positive sale quantity. This is a
	// caller contract violation, never silently clamped.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidBaseline indicates a supplied baseline override <= 0.
	ErrInvalidBaseline = errors.New("baseline price must be positive")
)

// FallbackBaselinePrice (₹/kg) is used when aggregation yields no data and
// no override is supplied. 2000 ₹/quintal after the standard conversion.
const FallbackBaselinePrice = 20.0

// ScoreWeights holds the composite score weighting. The figures are an
// empirically chosen default policy, not derived values; keep them
// overridable rather than inlined.
type ScoreWeights struct {
	Price       float64
	Distance    float64
	Demand      float64
	PriceAnchor float64 // denominator factor applied to the baseline
}

// DefaultScoreWeights returns the standard 0.4/0.3/0.3 policy with the
// 1.05 baseline anchor.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Price: 0.4, Distance: 0.3, Demand: 0.3, PriceAnchor: 1.05}
}

// CostModel holds transport cost assumptions. Replaceable heuristics:
// duration assumes ~30 km/h average road speed, fuel assumes 15 km/l.
type CostModel struct {
	FuelPricePerLitre float64
	MileageKmPerLitre float64
	FlatToll          float64
	TollFreeKm        float64
	LaborCost         float64
	DepreciationPerKm float64
	MinutesPerKm      float64
}

// DefaultCostModel returns cost assumptions for a small transport vehicle.
func DefaultCostModel() CostModel {
	return CostModel{
		FuelPricePerLitre: 100.0,
		MileageKmPerLitre: 15.0,
		FlatToll:          60.0,
		TollFreeKm:        20.0,
		LaborCost:         300.0,
		DepreciationPerKm: 2.0,
		MinutesPerKm:      2.0,
	}
}

// BaselineResolver supplies a live baseline price when the caller does not.
// *aggregator.Aggregator satisfies it.
type BaselineResolver interface {
	FetchMarketPrice(ctx context.Context, cropID string, limit int) model.AggregatedPrice
}

// Scorer ranks candidate destination markets by net profit and suitability.
type Scorer struct {
	Baseline   BaselineResolver // optional; fallback constant when nil or empty
	Candidates []model.CandidateMarket
	Weights    ScoreWeights
	Costs      CostModel
}

// NewScorer creates a Scorer with default weights and cost model. An empty
// candidate list falls back to the built-in reference set.
func NewScorer(baseline BaselineResolver, candidates []model.CandidateMarket) *Scorer {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	return &Scorer{
		Baseline:   baseline,
		Candidates: candidates,
		Weights:    DefaultScoreWeights(),
		Costs:      DefaultCostModel(),
	}
}

// ScoreMarkets evaluates every candidate market for selling the given
// quantity (kg) of a crop from origin. baselinePrice overrides live
// aggregation when non-nil, keeping the scorer cache-agnostic.
//
// The result is sorted by score descending; equal scores are broken by
// net profit per kg descending.
func (s *Scorer) ScoreMarkets(ctx context.Context, cropName string, quantity float64, origin geo.LatLon, baselinePrice *float64) ([]model.MarketScore, error) {
	if quantity <= 0 || math.IsNaN(quantity) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidQuantity, quantity)
	}
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if baselinePrice != nil && (*baselinePrice <= 0 || math.IsNaN(*baselinePrice)) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidBaseline, *baselinePrice)
	}

	baseline := s.resolveBaseline(ctx, cropName, baselinePrice)

	scores := make([]model.MarketScore, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		scores = append(scores, s.scoreCandidate(c, baseline, quantity, origin))
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].NetProfitPerKg > scores[j].NetProfitPerKg
	})
	return scores, nil
}

func (s *Scorer) resolveBaseline(ctx context.Context, cropName string, override *float64) float64 {
	if override != nil {
		return *override
	}
	if s.Baseline != nil {
		if agg := s.Baseline.FetchMarketPrice(ctx, cropName, 0); agg.RecordCount > 0 {
			return agg.AvgModal
		}
	}
	return FallbackBaselinePrice
}

func (s *Scorer) scoreCandidate(c model.CandidateMarket, baseline, quantity float64, origin geo.LatLon) model.MarketScore {
	livePrice := baseline * c.PriceOffset
	route := s.routeMetrics(geo.Haversine(origin, geo.LatLon{Lat: c.Lat, Lon: c.Lon}))
	netProfit := (livePrice*quantity - route.TotalCost()) / quantity

	distScore := math.Max(0, 1-route.DistanceKm/100)
	w := s.Weights
	score := w.Price*(livePrice/(baseline*w.PriceAnchor)) + w.Distance*distScore + w.Demand*c.DemandWeight

	return model.MarketScore{
		MandiName:       c.Name,
		Price:           round2(livePrice),
		NetProfitPerKg:  round2(netProfit),
		Score:           score,
		MatchPercentage: int(math.Round(score * 100)),
		Route:           route,
		Lat:             c.Lat,
		Lon:             c.Lon,
	}
}

func (s *Scorer) routeMetrics(distKm float64) model.RouteMetrics {
	c := s.Costs
	tolls := 0.0
	if distKm > c.TollFreeKm {
		tolls = c.FlatToll
	}
	return model.RouteMetrics{
		DistanceKm:   round2(distKm),
		DurationMins: math.Round(distKm * c.MinutesPerKm),
		FuelCost:     round2(distKm / c.MileageKmPerLitre * c.FuelPricePerLitre),
		Tolls:        tolls,
		LaborCost:    c.LaborCost,
		Depreciation: round2(distKm * c.DepreciationPerKm),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
