// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const dbFile = "insight.db"

// timeFmt is the column format for all stored timestamps.
const timeFmt = time.RFC3339Nano

// Store is the SQLite-backed cache. It also carries the reports history
// table (history.go); cached results and batch reports are the only state
// that outlives a run, so they share one database file.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the cache database at dir/insight.db and
// creates the schema if it does not exist (R2.1, R2.2).
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS results_cache (
			key TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			payload TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expires ON results_cache(expires_at)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			topics TEXT NOT NULL,
			overall REAL NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_started ON reports(started)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached results for key. Expired rows are deleted on
// read. Any storage or decode problem reads as a miss.
func (s *Store) Get(ctx context.Context, key string) ([]types.SearchResult, bool) {
	var payload, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM results_cache WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return nil, false
	}

	expiry, err := time.Parse(timeFmt, expiresAt)
	if err != nil || time.Now().After(expiry) {
		s.db.ExecContext(ctx, `DELETE FROM results_cache WHERE key = ?`, key)
		return nil, false
	}

	var results []types.SearchResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, false
	}
	return results, true
}

// Put stores results under key. A concurrent Put on the same key resolves
// to whichever write lands last, never a torn row (R3.2).
func (s *Store) Put(ctx context.Context, key, provider string, results []types.SearchResult, ttl time.Duration) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results_cache (key, provider, payload, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			provider = excluded.provider,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		key, provider, string(payload),
		now.Format(timeFmt), now.Add(ttl).Format(timeFmt))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM results_cache WHERE expires_at <= ?`,
		time.Now().UTC().Format(timeFmt))
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged rows: %w", err)
	}
	return int(n), nil
}

// Stats summarizes the cache table for the CLI.
type Stats struct {
	Entries int
	Expired int
	Reports int
}

// Stat counts live and expired cache rows and stored reports.
func (s *Store) Stat(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM results_cache`).Scan(&st.Entries); err != nil {
		return st, fmt.Errorf("counting cache entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM results_cache WHERE expires_at <= ?`,
		time.Now().UTC().Format(timeFmt)).Scan(&st.Expired); err != nil {
		return st, fmt.Errorf("counting expired entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reports`).Scan(&st.Reports); err != nil {
		return st, fmt.Errorf("counting reports: %w", err)
	}
	return st, nil
}

var _ Cache = (*Store)(nil)
var _ Cache = (*Memory)(nil)
