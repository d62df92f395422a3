// Sqlite results store. Every run writes its parameters, the raw
// report text per window, and the summary slots (NULLs preserved), so
// results stay queryable after the txt/xlsx artifacts are moved away.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yumyai/davidscan/pkg/model"
)

type ScanDB struct {
	sql *sql.DB
}

// OpenScanDB opens (and if needed initializes) the results database.
// The caller is expected to have imported a sqlite driver.
func OpenScanDB(path string) (*ScanDB, error) {

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scan db: %w", err)
	}

	s := &ScanDB{sql: conn}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *ScanDB) Close() error {
	return s.sql.Close()
}

func (s *ScanDB) init() error {

	ctx := context.TODO()

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id         TEXT PRIMARY KEY,
		species        TEXT,
		window_size    INTEGER,
		step_size      INTEGER,
		pval_threshold REAL,
		started_at     TEXT
	);
	CREATE TABLE IF NOT EXISTS reports (
		run_id  TEXT,
		window  TEXT,
		report  TEXT,
		PRIMARY KEY (run_id, window)
	);
	CREATE TABLE IF NOT EXISTS summaries (
		run_id   TEXT,
		position INTEGER,
		window   TEXT,
		slot     INTEGER,
		score    REAL,
		pvalue   REAL,
		terms    TEXT,
		size     INTEGER,
		PRIMARY KEY (run_id, position, slot)
	);`

	if _, err := s.sql.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init scan db: %w", err)
	}

	return nil
}

// InsertRun records the parameters of a new scan run.
func (s *ScanDB) InsertRun(runID, species string, windowSize, stepSize int, pvalThreshold float64) error {

	ctx := context.TODO()

	qstring := `INSERT INTO runs (run_id, species, window_size, step_size, pval_threshold, started_at)
		VALUES (?, ?, ?, ?, ?, ?);`

	_, err := s.sql.ExecContext(ctx, qstring,
		runID, species, windowSize, stepSize, pvalThreshold,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// SaveReport stores the raw report text for one window.
func (s *ScanDB) SaveReport(runID, window, report string) error {

	ctx := context.TODO()

	qstring := `INSERT OR REPLACE INTO reports (run_id, window, report) VALUES (?, ?, ?);`

	if _, err := s.sql.ExecContext(ctx, qstring, runID, window, report); err != nil {
		return fmt.Errorf("save report row: %w", err)
	}

	return nil
}

// SaveSummary stores one window's summary row, one record per cluster
// slot. Nil fields become SQL NULLs.
func (s *ScanDB) SaveSummary(runID string, position int, row model.WindowSummary) error {

	ctx := context.TODO()

	qstring := `INSERT OR REPLACE INTO summaries
		(run_id, position, window, slot, score, pvalue, terms, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	stm, err := s.sql.PrepareContext(ctx, qstring)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	defer stm.Close()

	for slot, c := range row.Slots {
		_, err := stm.ExecContext(ctx, runID, position, row.Window, slot,
			nullFloat(c.Score), nullFloat(c.Pvalue), c.Terms, nullInt(c.Size))
		if err != nil {
			return fmt.Errorf("save summary slot %d: %w", slot, err)
		}
	}

	return nil
}

// LoadSummaries reads a run's rows back in genome order.
func (s *ScanDB) LoadSummaries(runID string) ([]model.WindowSummary, error) {

	ctx := context.TODO()

	qstring := `SELECT position, window, slot, score, pvalue, terms, size
		FROM summaries WHERE run_id = ? ORDER BY position, slot;`

	rows, err := s.sql.QueryContext(ctx, qstring, runID)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	defer rows.Close()

	var out []model.WindowSummary
	lastPos := -1

	for rows.Next() {

		var (
			position, slot int
			window, terms  string
			score, pvalue  sql.NullFloat64
			size           sql.NullInt64
		)

		if err := rows.Scan(&position, &window, &slot, &score, &pvalue, &terms, &size); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}

		if position != lastPos {
			out = append(out, model.WindowSummary{Window: window})
			lastPos = position
		}

		cur := &out[len(out)-1]
		cur.Slots = append(cur.Slots, model.ClusterSlot{
			Score:  floatPtr(score),
			Pvalue: floatPtr(pvalue),
			Terms:  terms,
			Size:   intPtr(size),
		})
	}

	return out, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
