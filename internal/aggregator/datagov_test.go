package aggregator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDataGovFetcher_QueryAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api-key") != "test-key" {
			t.Errorf("api-key: got %q", q.Get("api-key"))
		}
		if q.Get("filters[state]") != "Kerala" {
			t.Errorf("state filter: got %q", q.Get("filters[state]"))
		}
		if q.Get("filters[commodity]") != "Rubber" {
			t.Errorf("commodity filter: got %q", q.Get("filters[commodity]"))
		}
		if q.Get("limit") != "50" {
			t.Errorf("limit: got %q", q.Get("limit"))
		}
		w.Write([]byte(snapshotJSON))
	}))
	defer srv.Close()

	f := NewDataGovFetcher(srv.URL, "test-key", "Kerala", "")
	records, err := f.FetchRecords(context.Background(), "Rubber", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
	if records[0].ModalPrice != "18450" {
		t.Errorf("modal_price: got %q", records[0].ModalPrice)
	}
}

func TestDataGovFetcher_MissingAPIKey(t *testing.T) {
	f := NewDataGovFetcher("https://example.invalid", "", "Kerala", "")
	if _, err := f.FetchRecords(context.Background(), "Rubber", 10); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestDataGovFetcher_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewDataGovFetcher(srv.URL, "test-key", "Kerala", "")
	if _, err := f.FetchRecords(context.Background(), "Rubber", 10); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestDataGovFetcher_NullRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"records": null}`))
	}))
	defer srv.Close()

	f := NewDataGovFetcher(srv.URL, "test-key", "Kerala", "")
	records, err := f.FetchRecords(context.Background(), "Rubber", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty slice for null records, got %v", records)
	}
}
