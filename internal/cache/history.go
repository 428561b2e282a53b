// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// ErrReportNotFound is returned by GetReport for an unknown report ID.
var ErrReportNotFound = errors.New("report not found")

// ReportSummary is one row of the history listing.
type ReportSummary struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Topics   []string
	Overall  float64
}

// SaveReport persists a finished batch report (R4.1). The full report is
// stored as JSON; topics and the mean overall score are denormalized for
// cheap listing.
func (s *Store) SaveReport(ctx context.Context, report *types.BatchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	topics := make([]string, len(report.Topics))
	for i, ev := range report.Topics {
		topics[i] = ev.Topic
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, started, finished, topics, overall, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			started = excluded.started,
			finished = excluded.finished,
			topics = excluded.topics,
			overall = excluded.overall,
			payload = excluded.payload`,
		report.ID,
		report.Started.UTC().Format(timeFmt),
		report.Finished.UTC().Format(timeFmt),
		strings.Join(topics, ", "),
		report.Overall(),
		string(payload))
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ListReports returns the most recent report summaries, newest first.
// limit <= 0 means 20.
func (s *Store) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started, finished, topics, overall
		 FROM reports ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var r ReportSummary
		var started, finished, topics string
		if err := rows.Scan(&r.ID, &started, &finished, &topics, &r.Overall); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		r.Started, _ = time.Parse(timeFmt, started)
		r.Finished, _ = time.Parse(timeFmt, finished)
		if topics != "" {
			r.Topics = strings.Split(topics, ", ")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetReport loads one stored batch report by ID. A unique ID prefix is
// accepted so CLI users can paste the short form from the listing.
func (s *Store) GetReport(ctx context.Context, id string) (*types.BatchReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reports WHERE id = ? OR id LIKE ? ORDER BY started DESC LIMIT 1`,
		id, id+"%",
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying report %s: %w", id, err)
	}

	var report types.BatchReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", id, err)
	}
	return &report, nil
}
