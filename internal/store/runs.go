package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dfarias/sprinter/internal/report"
)

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("store: run not found")

// RunSummary is one row of the history listing.
type RunSummary struct {
	ID          string
	SprintName  string
	SprintStart string
	SprintEnd   string
	GeneratedAt time.Time
	Placed      int
	Rejected    int
}

// RunStore persists and retrieves planning runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore on an opened database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// SaveRun records one report in the history. The full report is stored as
// JSON; placements, rejections and story roll-ups are also written to
// queryable rows.
func (s *RunStore) SaveRun(ctx context.Context, r *report.Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rejected := 0
	for _, g := range r.Rejections {
		rejected += len(g.TaskIDs)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, sprint_name, sprint_start, sprint_end, generated_at, placed, rejected, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Sprint.Name, r.Sprint.Start, r.Sprint.End,
		r.GeneratedAt.Format(time.RFC3339), len(r.Placements), rejected, string(raw),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, p := range r.Placements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_placements (run_id, task_id, title, executor, start_date, start_period, end_date, end_period, hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, p.TaskID, p.Title, p.Executor,
			p.Start.Date, p.Start.Period, p.End.Date, p.End.Period, p.Hours,
		); err != nil {
			return fmt.Errorf("inserting placement %s: %w", p.TaskID, err)
		}
	}

	for _, g := range r.Rejections {
		for _, taskID := range g.TaskIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_rejections (run_id, task_id, reason) VALUES (?, ?, ?)`,
				r.RunID, taskID, string(g.Reason),
			); err != nil {
				return fmt.Errorf("inserting rejection %s: %w", taskID, err)
			}
		}
	}

	for _, st := range r.Stories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_stories (run_id, story_id, title, owner, points, hours)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.RunID, st.StoryID, st.Title, st.Owner, st.Points, st.Hours,
		); err != nil {
			return fmt.Errorf("inserting story %s: %w", st.StoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	committed = true
	return nil
}

// ListRuns returns run summaries, most recent first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, sprint_name, sprint_start, sprint_end, generated_at, placed, rejected
		FROM runs ORDER BY generated_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var generated string
		if err := rows.Scan(&r.ID, &r.SprintName, &r.SprintStart, &r.SprintEnd, &generated, &r.Placed, &r.Rejected); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339, generated)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// GetRun loads the full report of one run.
func (s *RunStore) GetRun(ctx context.Context, id string) (*report.Report, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &r, nil
}
