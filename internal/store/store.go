// Package store handles SQLite persistence of finished rounds.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/guessit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so that text order in SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for round history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			range_min INTEGER NOT NULL,
			range_max INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores a finished round.
func (s *Store) InsertRound(ctx context.Context, round model.RoundStats) error {
	if round.ID == "" {
		return fmt.Errorf("round id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, started_at, ended_at, attempts, rejected, range_min, range_max, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID,
		formatTime(round.StartedAt),
		formatTime(round.EndedAt),
		round.Attempts,
		round.Rejected,
		round.RangeMin,
		round.RangeMax,
		round.DurationMs,
	)
	return err
}

// ListRounds returns finished rounds oldest first, filtered by cfg.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, attempts, rejected, range_min, range_max, duration_ms
		FROM rounds
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var endedAt string
		if err := rows.Scan(&agg.RoundID, &endedAt, &agg.Attempts, &agg.Rejected, &agg.RangeMin, &agg.RangeMax, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	return rounds, nil
}

// ListRangeAggregates groups rounds by guess range.
func (s *Store) ListRangeAggregates(ctx context.Context, roundIDs []string) ([]model.RangeAggregate, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(roundIDs))
	args := make([]any, len(roundIDs))
	for i, id := range roundIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT range_min, range_max, COUNT(*) AS rounds, SUM(attempts) AS attempts,
		MIN(attempts) AS best, SUM(rejected) AS rejected, SUM(duration_ms) AS duration_ms
		FROM rounds
		WHERE id IN (%s)
		GROUP BY range_min, range_max
		ORDER BY range_min, range_max`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RangeAggregate
	for rows.Next() {
		var agg model.RangeAggregate
		if err := rows.Scan(&agg.RangeMin, &agg.RangeMax, &agg.Rounds, &agg.AttemptsSum, &agg.BestAttempts, &agg.RejectedSum, &agg.DurationSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
