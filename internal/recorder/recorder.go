package recorder

import (
	"time"

	"CropCompass/internal/model"
)

// RecommendationRecord captures one emitted sell/hold recommendation for
// later review.
type RecommendationRecord struct {
	CropID         string
	CurrentPrice   float64
	Quantity       float64
	RiskLevel      string
	Confidence     float64
	Recommendation string
	RecordedAt     time.Time
}

// Recorder persists price history and emitted recommendations.
type Recorder interface {
	RecordAggregate(cropID string, agg model.AggregatedPrice) error
	RecordRecommendation(rec *RecommendationRecord) error
	// RecentAggregates returns up to n snapshots for a crop, newest first.
	RecentAggregates(cropID string, n int) ([]model.PriceSnapshot, error)
	Close() error
}
