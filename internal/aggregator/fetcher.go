package aggregator

import "context"

// RawRecord mirrors the provider's JSON record. Numeric fields arrive as
// strings and are only parsed during aggregation so a single malformed
// record never poisons a batch.
type RawRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// Fetcher defines the interface for fetching raw mandi price records.
type Fetcher interface {
	FetchRecords(ctx context.Context, commodity string, limit int) ([]RawRecord, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Records []RawRecord
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchRecords(_ context.Context, _ string, limit int) ([]RawRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && limit < len(m.Records) {
		return m.Records[:limit], nil
	}
	return m.Records, nil
}
