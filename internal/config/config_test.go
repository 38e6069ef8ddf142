package config

import (
	"os"
	"path/filepath"
	"testing"

	"CropCompass/internal/model"
)

func marketAt(name string, lat, lon, demand float64) model.CandidateMarket {
	return model.CandidateMarket{Name: name, PriceOffset: 1.0, DemandWeight: demand, Lat: lat, Lon: lon}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.State != "Kerala" {
		t.Errorf("expected default state Kerala, got %q", cfg.DataSource.State)
	}
	if len(cfg.Ticker.Crops) != 5 {
		t.Errorf("expected 5 default ticker crops, got %v", cfg.Ticker.Crops)
	}
	if cfg.Ticker.RefreshCron == "" || cfg.Database.SQLitePath == "" {
		t.Errorf("expected cron and sqlite defaults, got %+v", cfg)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
data_source:
  api_key: "test-key"
  state: "Tamil Nadu"
ticker:
  crops: ["rubber", "banana"]
markets:
  - name: "Kochi Mandi"
    price_offset: 1.06
    demand_weight: 0.9
    lat: 9.9312
    lon: 76.2673
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr: expected :9090, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.APIKey != "test-key" || cfg.DataSource.State != "Tamil Nadu" {
		t.Errorf("data_source not loaded: %+v", cfg.DataSource)
	}
	if len(cfg.Ticker.Crops) != 2 {
		t.Errorf("crops: expected 2, got %v", cfg.Ticker.Crops)
	}
	if len(cfg.Markets) != 1 || cfg.Markets[0].PriceOffset != 1.06 {
		t.Errorf("markets not loaded: %+v", cfg.Markets)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
data_source:
  api_key: "file-key"
`)
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("DATA_GOV_API_KEY", "env-key")
	t.Setenv("TICKER_CROPS", "rubber, coconut ,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("env should override file addr, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.APIKey != "env-key" {
		t.Errorf("env should override file api key, got %q", cfg.DataSource.APIKey)
	}
	want := []string{"rubber", "coconut"}
	if len(cfg.Ticker.Crops) != 2 || cfg.Ticker.Crops[0] != want[0] || cfg.Ticker.Crops[1] != want[1] {
		t.Errorf("crops: expected %v, got %v", want, cfg.Ticker.Crops)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("load defaults: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Server.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty addr")
	}

	cfg = base()
	cfg.DataSource.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when no data source is configured")
	}

	cfg = base()
	cfg.Markets = append(cfg.Markets, marketAt("", 9.9, 76.2, 0.5))
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unnamed market")
	}

	cfg = base()
	cfg.Markets = append(cfg.Markets, marketAt("Bad Coords", 95, 76.2, 0.5))
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range coordinates")
	}

	cfg = base()
	cfg.Markets = append(cfg.Markets, marketAt("Bad Demand", 9.9, 76.2, 1.5))
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for demand_weight outside [0,1]")
	}
}
