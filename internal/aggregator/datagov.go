package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoAPIKey indicates the data.gov.in credential is not configured.
// Callers treat it as a degrade-to-empty condition, not a failure.
var ErrNoAPIKey = errors.New("data.gov.in api key not configured")

// DataGovFetcher implements Fetcher against the data.gov.in mandi price API.
type DataGovFetcher struct {
	BaseURL string
	APIKey  string
	State   string
	Client  *http.Client
}

// NewDataGovFetcher creates a fetcher scoped to one state, with optional proxy support.
func NewDataGovFetcher(baseURL, apiKey, state, proxyURL string) *DataGovFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &DataGovFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		State:   state,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *DataGovFetcher) Name() string { return "data.gov.in" }

// dataGovResponse is the expected JSON envelope. Absent or null records are
// tolerated and produce an empty slice.
type dataGovResponse struct {
	Records []RawRecord `json:"records"`
}

func (f *DataGovFetcher) FetchRecords(ctx context.Context, commodity string, limit int) ([]RawRecord, error) {
	if f.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("api-key", f.APIKey)
	q.Set("format", "json")
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("filters[state]", f.State)
	q.Set("filters[commodity]", commodity)
	endpoint := f.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch records: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload dataGovResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return payload.Records, nil
}
