package aggregator

import (
	"context"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"CropCompass/internal/model"
)

// DefaultLimit is the number of records requested when the caller passes <= 0.
const DefaultLimit = 100

// cropSynonyms maps crop names whose provider spelling differs from the
// obvious title-case form.
var cropSynonyms = map[string]string{
	"black pepper": "Black pepper",
	"pepper":       "Black pepper",
	"cardamom":     "Cardamoms",
	"coconut oil":  "Coconut Oil",
	"arecanut":     "Arecanut(Betelnut/Supari)",
}

// NormalizeCropName converts an internal crop id to the provider's
// commodity naming convention.
func NormalizeCropName(cropID string) string {
	key := strings.ToLower(strings.TrimSpace(cropID))
	if name, ok := cropSynonyms[key]; ok {
		return name
	}
	return titleCase(key)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// quintalToKg converts a provider price (₹/quintal) to ₹/kg.
// Isolated so a provider with different units only touches this function.
func quintalToKg(v float64) float64 {
	return v / 100.0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregator normalizes raw mandi records into a single per-crop statistic.
type Aggregator struct {
	Fetcher Fetcher
}

// NewAggregator creates an Aggregator backed by the given fetcher.
func NewAggregator(f Fetcher) *Aggregator {
	return &Aggregator{Fetcher: f}
}

// FetchMarketPrice fetches up to limit records for the crop and aggregates
// them. Any data-source failure degrades to the empty AggregatedPrice with a
// logged diagnostic; price data is advisory and must never fail the caller.
func (a *Aggregator) FetchMarketPrice(ctx context.Context, cropID string, limit int) model.AggregatedPrice {
	if limit <= 0 {
		limit = DefaultLimit
	}
	commodity := NormalizeCropName(cropID)

	records, err := a.Fetcher.FetchRecords(ctx, commodity, limit)
	if err != nil {
		log.Printf("[WARN] fetch %q from %s: %v", commodity, a.Fetcher.Name(), err)
		return model.EmptyAggregatedPrice()
	}

	obs := make([]model.PriceObservation, 0, len(records))
	for _, r := range records {
		o, ok := normalizeRecord(r)
		if !ok {
			log.Printf("[WARN] skipping unparseable record for %q at %q", commodity, r.Market)
			continue
		}
		obs = append(obs, o)
	}
	if len(obs) == 0 {
		return model.EmptyAggregatedPrice()
	}
	return aggregate(obs)
}

// normalizeRecord parses one raw record, converting prices to ₹/kg.
// Returns false when any numeric field cannot be parsed.
func normalizeRecord(r RawRecord) (model.PriceObservation, bool) {
	minP, ok1 := parsePrice(r.MinPrice)
	maxP, ok2 := parsePrice(r.MaxPrice)
	modalP, ok3 := parsePrice(r.ModalPrice)
	if !ok1 || !ok2 || !ok3 {
		return model.PriceObservation{}, false
	}
	return model.PriceObservation{
		State:       r.State,
		District:    r.District,
		Market:      r.Market,
		Commodity:   r.Commodity,
		Variety:     r.Variety,
		ArrivalDate: r.ArrivalDate,
		MinPrice:    quintalToKg(minP),
		MaxPrice:    quintalToKg(maxP),
		ModalPrice:  quintalToKg(modalP),
	}, true
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func aggregate(obs []model.PriceObservation) model.AggregatedPrice {
	sum := 0.0
	minP := math.Inf(1)
	maxP := math.Inf(-1)
	for _, o := range obs {
		sum += o.ModalPrice
		if o.MinPrice < minP {
			minP = o.MinPrice
		}
		if o.MaxPrice > maxP {
			maxP = o.MaxPrice
		}
	}

	markets := uniqueSorted(obs, func(o model.PriceObservation) string { return o.Market })
	districts := uniqueSorted(obs, func(o model.PriceObservation) string { return o.District })

	return model.AggregatedPrice{
		AvgModal:    round2(sum / float64(len(obs))),
		MinPrice:    round2(minP),
		MaxPrice:    round2(maxP),
		RecordCount: len(obs),
		Markets:     markets,
		Districts:   districts,
	}
}

func uniqueSorted(obs []model.PriceObservation, key func(model.PriceObservation) string) []string {
	seen := make(map[string]struct{}, len(obs))
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		k := strings.TrimSpace(key(o))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
