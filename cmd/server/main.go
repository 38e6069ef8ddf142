package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CropCompass/internal/aggregator"
	"CropCompass/internal/api"
	"CropCompass/internal/config"
	"CropCompass/internal/notifier"
	"CropCompass/internal/recorder"
	"CropCompass/internal/scheduler"
	"CropCompass/internal/scorer"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CropCompass starting...")

	// .env is optional; real deployments set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher aggregator.Fetcher
	if cfg.DataSource.SnapshotFile != "" {
		fetcher = aggregator.NewFileFetcher(cfg.DataSource.SnapshotFile)
	} else {
		fetcher = aggregator.NewDataGovFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.State, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s (state=%s)", fetcher.Name(), cfg.DataSource.State)
	if cfg.DataSource.APIKey == "" && cfg.DataSource.SnapshotFile == "" {
		log.Println("[WARN] no data.gov.in API key configured; price lookups will return empty results")
	}

	agg := aggregator.NewAggregator(fetcher)

	// Init recorder
	var rec recorder.Recorder
	var store aggregator.SnapshotStore
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			store = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ticker := aggregator.NewTicker(agg, store)
	sc := scorer.NewScorer(agg, cfg.Markets)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, ticker, cfg.Ticker.Crops, tn)
	if err := sched.Register(cfg.Ticker.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing ticker now")
		go sched.RunRefreshNow()
	}

	// HTTP API
	server := api.NewServer(agg, ticker, sc, rec, cfg.Ticker.Crops)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] CropCompass is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] CropCompass stopped")
}
