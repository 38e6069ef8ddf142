package scheduler

import (
	"context"
	"fmt"
	"log"

	"CropCompass/internal/aggregator"
	"CropCompass/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic ticker refresh that keeps the price history
// populated and optionally sends a Telegram digest.
type Scheduler struct {
	Cron     *cron.Cron
	Ticker   *aggregator.Ticker
	Crops    []string
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ticker *aggregator.Ticker, crops []string, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ticker:   ticker,
		Crops:    crops,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register registers the refresh task on the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Printf("[INFO] running ticker refresh for %d crops", len(s.Crops))
	entries := s.Ticker.Fetch(s.Ctx, s.Crops)
	log.Printf("[INFO] ticker refresh complete: %d/%d crops priced", len(entries), len(s.Crops))

	if s.Notifier != nil && s.Notifier.Enabled() {
		digest := notifier.FormatTickerDigest(entries)
		if err := s.Notifier.SendWithRetry(s.Ctx, digest, 3); err != nil {
			log.Printf("[ERROR] send digest: %v", err)
		}
	}
}
