package ledger

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loom/internal/logging"
)

func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()

	dir := t.TempDir()
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel, Output: io.Discard})

	l, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return l
}

func TestOpenCreatesDatabase(t *testing.T) {
	l := setupTestLedger(t)

	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("database file not created: %v", err)
	}
	if filepath.Base(l.Path()) != DBFile {
		t.Errorf("unexpected db path: %s", l.Path())
	}
}

func TestRecordRunAndHistory(t *testing.T) {
	l := setupTestLedger(t)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := NewRun()
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		run.CompletedAt = run.StartedAt.Add(2 * time.Second)
		run.Written = i
		run.Skipped = 1

		if err := l.RecordRun(run, nil); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	history, err := l.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History returned %d runs", len(history))
	}
	// Newest first
	if !history[0].StartedAt.After(history[1].StartedAt) {
		t.Errorf("history not ordered newest first: %v then %v", history[0].StartedAt, history[1].StartedAt)
	}
	if history[0].Written != 2 {
		t.Errorf("counter lost: %+v", history[0])
	}
}

func TestHistoryLimit(t *testing.T) {
	l := setupTestLedger(t)

	for i := 0; i < 5; i++ {
		run := NewRun()
		run.StartedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		run.CompletedAt = run.StartedAt
		if err := l.RecordRun(run, nil); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	history, err := l.History(2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("History(2) returned %d runs", len(history))
	}
}

func TestRunArtifactsRoundTrip(t *testing.T) {
	l := setupTestLedger(t)

	run := NewRun()
	run.CompletedAt = run.StartedAt.Add(time.Second)
	run.Written = 2

	artifacts := []ArtifactRecord{
		{Path: "src/api/types.ts", Scaffold: "api-types", Hash: "abc123"},
		{Path: "src/api/client.ts", Scaffold: "api-client", Hash: "def456"},
	}
	if err := l.RecordRun(run, artifacts); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := l.RunArtifacts(run.ID)
	if err != nil {
		t.Fatalf("RunArtifacts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RunArtifacts returned %d records", len(got))
	}
	// Sorted by path
	if got[0].Path != "src/api/client.ts" || got[1].Path != "src/api/types.ts" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[1].Hash != "abc123" || got[1].Scaffold != "api-types" {
		t.Errorf("record mangled: %+v", got[1])
	}
	if got[0].WrittenAt.IsZero() {
		t.Error("WrittenAt not defaulted to run completion")
	}
}

func TestLatestArtifact(t *testing.T) {
	l := setupTestLedger(t)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i, hash := range []string{"old", "mid", "new"} {
		run := NewRun()
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run.CompletedAt = run.StartedAt.Add(time.Second)
		rec := ArtifactRecord{Path: "src/models.ts", Scaffold: "models", Hash: hash, WrittenAt: run.CompletedAt}
		if err := l.RecordRun(run, []ArtifactRecord{rec}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	latest, ok, err := l.LatestArtifact("src/models.ts")
	if err != nil {
		t.Fatalf("LatestArtifact: %v", err)
	}
	if !ok {
		t.Fatal("expected a record")
	}
	if latest.Hash != "new" {
		t.Errorf("latest hash = %q", latest.Hash)
	}

	if _, ok, err := l.LatestArtifact("never/written.ts"); err != nil || ok {
		t.Errorf("expected no record, got ok=%v err=%v", ok, err)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel, Output: io.Discard})

	l, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run := NewRun()
	run.CompletedAt = run.StartedAt
	if err := l.RecordRun(run, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	history, err := reopened.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].ID != run.ID {
		t.Errorf("history lost across reopen: %+v", history)
	}
}
