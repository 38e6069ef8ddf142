package config

import (
	"fmt"
	"os"
	"strings"

	"CropCompass/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		State        string `yaml:"state"`
		SnapshotFile string `yaml:"snapshot_file"`
	} `yaml:"data_source"`
	Ticker struct {
		Crops       []string `yaml:"crops"`
		RefreshCron string   `yaml:"refresh_cron"`
	} `yaml:"ticker"`
	Markets  []model.CandidateMarket `yaml:"markets"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_GOV_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_GOV_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("MANDI_STATE"); v != "" {
		cfg.DataSource.State = v
	}
	if v := os.Getenv("MANDI_SNAPSHOT_FILE"); v != "" {
		cfg.DataSource.SnapshotFile = v
	}
	if v := os.Getenv("TICKER_CROPS"); v != "" {
		cfg.Ticker.Crops = splitCrops(v)
	}
	if v := os.Getenv("TICKER_REFRESH_CRON"); v != "" {
		cfg.Ticker.RefreshCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.BaseURL == "" {
		// Current daily mandi price resource on data.gov.in.
		cfg.DataSource.BaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"
	}
	if cfg.DataSource.State == "" {
		cfg.DataSource.State = "Kerala"
	}
	if len(cfg.Ticker.Crops) == 0 {
		cfg.Ticker.Crops = []string{"rubber", "coconut", "black pepper", "cardamom", "banana"}
	}
	if cfg.Ticker.RefreshCron == "" {
		cfg.Ticker.RefreshCron = "0 0 7 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/cropcompass.db"
	}

	return cfg, nil
}

// Validate checks structural fields. A missing API key is deliberately not an
// error here: the aggregator degrades to empty results so dashboards stay up.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.DataSource.BaseURL == "" && c.DataSource.SnapshotFile == "" {
		return fmt.Errorf("data_source.base_url or data_source.snapshot_file is required")
	}
	for i, m := range c.Markets {
		if m.Name == "" {
			return fmt.Errorf("markets[%d].name is required", i)
		}
		if m.Lat < -90 || m.Lat > 90 || m.Lon < -180 || m.Lon > 180 {
			return fmt.Errorf("markets[%d] (%s): coordinates out of range", i, m.Name)
		}
		if m.DemandWeight < 0 || m.DemandWeight > 1 {
			return fmt.Errorf("markets[%d] (%s): demand_weight must be in [0,1]", i, m.Name)
		}
	}
	return nil
}

func splitCrops(s string) []string {
	parts := strings.Split(s, ",")
	crops := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			crops = append(crops, p)
		}
	}
	return crops
}
