package model

// CandidateMarket is static reference data describing one destination mandi.
// PriceOffset scales the baseline price to approximate that market's typical
// premium or discount; DemandWeight is in [0,1].
type CandidateMarket struct {
	Name         string  `json:"name" yaml:"name"`
	PriceOffset  float64 `json:"price_offset" yaml:"price_offset"`
	DemandWeight float64 `json:"demand_weight" yaml:"demand_weight"`
	Lat          float64 `json:"lat" yaml:"lat"`
	Lon          float64 `json:"lon" yaml:"lon"`
}

// RouteMetrics holds the estimated transport costs to one candidate market.
type RouteMetrics struct {
	DistanceKm   float64 `json:"distance_km"`
	DurationMins float64 `json:"duration_mins"`
	FuelCost     float64 `json:"fuel_cost"`
	Tolls        float64 `json:"tolls"`
	LaborCost    float64 `json:"labor_cost"`
	Depreciation float64 `json:"depreciation"`
}

// TotalCost is the sum of all transport cost components.
func (r RouteMetrics) TotalCost() float64 {
	return r.FuelCost + r.Tolls + r.LaborCost + r.Depreciation
}

// MarketScore is one ranked candidate in the scorer output.
type MarketScore struct {
	MandiName       string       `json:"mandi_name"`
	Price           float64      `json:"price"`
	NetProfitPerKg  float64      `json:"net_profit_per_kg"`
	Score           float64      `json:"score"`
	MatchPercentage int          `json:"match_percentage"`
	Route           RouteMetrics `json:"route"`
	Lat             float64      `json:"lat"`
	Lon             float64      `json:"lon"`
}
