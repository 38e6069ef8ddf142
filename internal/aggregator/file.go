package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileFetcher implements Fetcher from a local JSON snapshot in the same
// envelope the live API uses. Useful for offline demos and air-gapped tests.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a fetcher reading from the given snapshot file.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file:" + f.Path }

func (f *FileFetcher) FetchRecords(_ context.Context, commodity string, limit int) ([]RawRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var payload dataGovResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	records := make([]RawRecord, 0, len(payload.Records))
	for _, r := range payload.Records {
		if !strings.EqualFold(r.Commodity, commodity) {
			continue
		}
		records = append(records, r)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}
