package recorder

import "CropCompass/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAggregate(_ string, _ model.AggregatedPrice) error { return nil }
func (n *NoopRecorder) RecordRecommendation(_ *RecommendationRecord) error      { return nil }
func (n *NoopRecorder) RecentAggregates(_ string, _ int) ([]model.PriceSnapshot, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
