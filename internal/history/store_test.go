package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"reelsmith/internal/history"
	"reelsmith/internal/testsupport"
)

func TestRecordStartAndFinish(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	start := history.Start{
		RunID:         "run-1",
		OutputPath:    "/videos/out.mp4",
		NarrationPath: "/audio/voice.mp3",
		ClipCount:     3,
	}
	if err := store.RecordStart(ctx, start); err != nil {
		t.Fatalf("RecordStart: %v", err)
	}

	run, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != history.StatusRunning || run.ClipCount != 3 || run.MusicPath != "" {
		t.Fatalf("unexpected running entry %#v", run)
	}
	if run.StartedAt.IsZero() || !run.FinishedAt.IsZero() {
		t.Fatalf("unexpected timestamps %#v", run)
	}

	outcome := history.Outcome{
		Status:          history.StatusFailed,
		UsableClips:     0,
		DurationSeconds: 12.5,
		FailedStep:      "clips",
		FailureKind:     "validation",
		ErrorMessage:    "no usable clips",
	}
	if err := store.RecordFinish(ctx, "run-1", outcome); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	run, err = store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != history.StatusFailed || run.FailedStep != "clips" || run.ErrorMessage != "no usable clips" {
		t.Fatalf("unexpected finished entry %#v", run)
	}
	if run.DurationSeconds != 12.5 || run.FinishedAt.IsZero() || run.Elapsed() < 0 {
		t.Fatalf("unexpected finished fields %#v", run)
	}
}

func TestRecordStartRequiresRunID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if err := store.RecordStart(context.Background(), history.Start{OutputPath: "x"}); err == nil {
		t.Fatal("expected error when run id missing")
	}
}

func TestRecordFinishUnknownRun(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	err := store.RecordFinish(context.Background(), "missing", history.Outcome{})
	if !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from Get, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.RecordStart(ctx, history.Start{RunID: id, OutputPath: id + ".mp4", NarrationPath: "v.mp3"}); err != nil {
			t.Fatalf("RecordStart %s: %v", id, err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("expected newest first, got %s, %s", runs[0].RunID, runs[1].RunID)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestPruneKeepsRunningEntries(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, id := range []string{"done", "active"} {
		if err := store.RecordStart(ctx, history.Start{RunID: id, OutputPath: "o.mp4", NarrationPath: "v.mp3"}); err != nil {
			t.Fatalf("RecordStart: %v", err)
		}
	}
	if err := store.RecordFinish(ctx, "done", history.Outcome{Status: history.StatusSucceeded}); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	removed, err := store.Prune(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned run, got %d", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "active" {
		t.Fatalf("expected only active run to remain, got %#v", runs)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestGetByUniquePrefix(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, id := range []string{"3f2a9c10-aaaa", "3f2a9c10-bbbb", "7c01e5d2-cccc"} {
		if err := store.RecordStart(ctx, history.Start{RunID: id, OutputPath: id + ".mp4", NarrationPath: "v.mp3"}); err != nil {
			t.Fatalf("RecordStart %s: %v", id, err)
		}
	}

	run, err := store.Get(ctx, "7c01e5d2")
	if err != nil {
		t.Fatalf("Get by prefix: %v", err)
	}
	if run.RunID != "7c01e5d2-cccc" {
		t.Fatalf("unexpected run %q", run.RunID)
	}
	if _, err := store.Get(ctx, "3f2a9c10"); !errors.Is(err, history.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}
	if run, err := store.Get(ctx, "3f2a9c10-bbbb"); err != nil || run.RunID != "3f2a9c10-bbbb" {
		t.Fatalf("expected exact match, got %+v, %v", run, err)
	}
	if _, err := store.Get(ctx, "  "); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound for blank id, got %v", err)
	}
}
