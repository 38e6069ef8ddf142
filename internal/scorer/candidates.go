package scorer

import "CropCompass/internal/model"

// DefaultCandidates is the built-in reference set of destination mandis
// used when no market table is configured. Offsets and demand weights are
// policy data observed per market, not computed values.
func DefaultCandidates() []model.CandidateMarket {
	return []model.CandidateMarket{
		{Name: "Kochi Mandi", PriceOffset: 1.06, DemandWeight: 0.90, Lat: 9.9312, Lon: 76.2673},
		{Name: "Kottayam Market", PriceOffset: 1.00, DemandWeight: 0.75, Lat: 9.5916, Lon: 76.5221},
		{Name: "Thrissur APMC", PriceOffset: 1.03, DemandWeight: 0.80, Lat: 10.5276, Lon: 76.2144},
		{Name: "Thiruvananthapuram Market", PriceOffset: 0.97, DemandWeight: 0.70, Lat: 8.5241, Lon: 76.9366},
		{Name: "Madurai Central Market", PriceOffset: 1.08, DemandWeight: 0.65, Lat: 9.9252, Lon: 78.1198},
	}
}
