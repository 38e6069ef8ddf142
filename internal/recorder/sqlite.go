package recorder

import (
	"fmt"
	"log"
	"sync"
	"time"

	"CropCompass/internal/model"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists price history to a SQLite database.
type SQLiteRecorder struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			crop_id      TEXT NOT NULL,
			avg_modal    REAL,
			min_price    REAL,
			max_price    REAL,
			record_count INTEGER,
			market_count INTEGER,
			recorded_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_crop_ts ON price_snapshots(crop_id, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			crop_id        TEXT NOT NULL,
			current_price  REAL,
			quantity       REAL,
			risk_level     TEXT,
			confidence     REAL,
			recommendation TEXT,
			recorded_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_ts ON recommendations(recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAggregate(cropID string, agg model.AggregatedPrice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO price_snapshots
		(crop_id, avg_modal, min_price, max_price, record_count, market_count, recorded_at)
		VALUES (?,?,?,?,?,?,?)`,
		cropID, agg.AvgModal, agg.MinPrice, agg.MaxPrice,
		agg.RecordCount, len(agg.Markets), time.Now().Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordRecommendation(rec *RecommendationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO recommendations
		(crop_id, current_price, quantity, risk_level, confidence, recommendation, recorded_at)
		VALUES (?,?,?,?,?,?,?)`,
		rec.CropID, rec.CurrentPrice, rec.Quantity,
		rec.RiskLevel, rec.Confidence, rec.Recommendation, ts.Unix(),
	)
	return err
}

type snapshotRow struct {
	CropID      string  `db:"crop_id"`
	AvgModal    float64 `db:"avg_modal"`
	MinPrice    float64 `db:"min_price"`
	MaxPrice    float64 `db:"max_price"`
	RecordCount int     `db:"record_count"`
	RecordedAt  int64   `db:"recorded_at"`
}

func (r *SQLiteRecorder) RecentAggregates(cropID string, n int) ([]model.PriceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []snapshotRow
	err := r.db.Select(&rows, `SELECT crop_id, avg_modal, min_price, max_price, record_count, recorded_at
		FROM price_snapshots WHERE crop_id = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		cropID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}

	snaps := make([]model.PriceSnapshot, len(rows))
	for i, row := range rows {
		snaps[i] = model.PriceSnapshot{
			CropID:      row.CropID,
			AvgModal:    row.AvgModal,
			MinPrice:    row.MinPrice,
			MaxPrice:    row.MaxPrice,
			RecordCount: row.RecordCount,
			RecordedAt:  time.Unix(row.RecordedAt, 0),
		}
	}
	return snaps, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
