package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded assembly.
type Run struct {
	ID              int64
	RunID           string
	OutputPath      string
	NarrationPath   string
	MusicPath       string
	ClipCount       int
	UsableClips     int
	DurationSeconds float64
	CaptionEvents   int
	Status          Status
	FailedStep      string
	FailureKind     string
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Elapsed returns how long the run took, or zero while it is still running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Start describes a run that is about to begin.
type Start struct {
	RunID         string
	OutputPath    string
	NarrationPath string
	MusicPath     string
	ClipCount     int
}

// Outcome describes how a run ended.
type Outcome struct {
	Status          Status
	UsableClips     int
	DurationSeconds float64
	CaptionEvents   int
	FailedStep      string
	FailureKind     string
	ErrorMessage    string
}

var (
	// ErrRunNotFound is returned when a run id is unknown.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when a run id prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

const runColumns = "id, run_id, output_path, narration_path, music_path, clip_count, usable_clips, duration_seconds, caption_events, status, failed_step, failure_kind, error_message, started_at, finished_at"

// RecordStart inserts a running entry.
func (s *Store) RecordStart(ctx context.Context, start Start) error {
	if strings.TrimSpace(start.RunID) == "" {
		return errors.New("run id is required")
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (run_id, output_path, narration_path, music_path, clip_count, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		start.RunID, start.OutputPath, start.NarrationPath, nullableString(start.MusicPath),
		start.ClipCount, string(StatusRunning), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFinish stores the outcome of a run started with RecordStart.
func (s *Store) RecordFinish(ctx context.Context, runID string, outcome Outcome) error {
	if outcome.Status == "" {
		outcome.Status = StatusSucceeded
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, usable_clips = ?, duration_seconds = ?, caption_events = ?,
		 failed_step = ?, failure_kind = ?, error_message = ?, finished_at = ?
		 WHERE run_id = ?`,
		string(outcome.Status), outcome.UsableClips, outcome.DurationSeconds, outcome.CaptionEvents,
		nullableString(outcome.FailedStep), nullableString(outcome.FailureKind), nullableString(outcome.ErrorMessage),
		formatTime(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Get returns a single run by id. When no run has exactly that id, a unique
// run whose id starts with it is returned, so the short ids printed by the
// CLI can be used.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("%w: empty run id", ErrRunNotFound)
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE substr(run_id, 1, ?) = ? ORDER BY started_at DESC LIMIT 2",
		len(runID), runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		match, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, runID)
	}
}

// List returns the most recent runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Prune deletes finished runs that started before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM runs WHERE status != ? AND started_at < ?",
		string(StatusRunning), formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		music       sql.NullString
		failedStep  sql.NullString
		failureKind sql.NullString
		errMessage  sql.NullString
		statusStr   string
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.OutputPath,
		&run.NarrationPath,
		&music,
		&run.ClipCount,
		&run.UsableClips,
		&run.DurationSeconds,
		&run.CaptionEvents,
		&statusStr,
		&failedStep,
		&failureKind,
		&errMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.MusicPath = music.String
	run.Status = Status(statusStr)
	run.FailedStep = failedStep.String
	run.FailureKind = failureKind.String
	run.ErrorMessage = errMessage.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

// timestamps are stored in UTC with fixed-width fractional seconds so that
// lexical order matches chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
