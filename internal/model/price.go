package model

import "time"

// PriceObservation is a single mandi record after unit normalization.
// All price fields are ₹ per kilogram (the upstream API reports per quintal).
type PriceObservation struct {
	State       string  `json:"state"`
	District    string  `json:"district"`
	Market      string  `json:"market"`
	Commodity   string  `json:"commodity"`
	Variety     string  `json:"variety"`
	ArrivalDate string  `json:"arrival_date"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	ModalPrice  float64 `json:"modal_price"`
}

// AggregatedPrice is the per-crop statistic produced from surviving records.
// RecordCount == 0 is a valid "no data available" value, not an error.
type AggregatedPrice struct {
	AvgModal    float64  `json:"avg_modal"`
	MinPrice    float64  `json:"min_price"`
	MaxPrice    float64  `json:"max_price"`
	RecordCount int      `json:"record_count"`
	Markets     []string `json:"markets"`
	Districts   []string `json:"districts"`
}

// EmptyAggregatedPrice returns the "no data" sentinel with non-nil lists.
func EmptyAggregatedPrice() AggregatedPrice {
	return AggregatedPrice{Markets: []string{}, Districts: []string{}}
}

// TickerEntry is one crop's row in the price ticker.
type TickerEntry struct {
	CropID      string    `json:"crop_id"`
	CropName    string    `json:"crop_name"`
	PricePerKg  float64   `json:"price_per_kg"`
	ChangePct   float64   `json:"change_pct"`
	RecordCount int       `json:"record_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceSnapshot is a persisted aggregate used for day-over-day change.
type PriceSnapshot struct {
	CropID      string    `json:"crop_id"`
	AvgModal    float64   `json:"avg_modal"`
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	RecordCount int       `json:"record_count"`
	RecordedAt  time.Time `json:"recorded_at"`
}
