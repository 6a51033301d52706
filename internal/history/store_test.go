package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	inputs := []Entry{
		{JobID: "job-1", InputPath: "/in/a.pdf", OutputPath: "/out/a.pdf", Preset: "ebook", OriginalSizeBytes: 10 << 20, CompressedSizeBytes: 4 << 20},
		{JobID: "job-2", InputPath: "/in/b.pdf", OutputPath: "/out/b.pdf", Preset: "screen", OriginalSizeBytes: 8 << 20, CompressedSizeBytes: 2 << 20},
		{JobID: "job-3", InputPath: "/in/c.pdf", OutputPath: "/out/c.pdf", Preset: "prepress", OriginalSizeBytes: 5 << 20, CompressedSizeBytes: 5 << 20},
	}
	for _, entry := range inputs {
		stored, err := store.Append(ctx, entry)
		if err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
		if stored.ID == 0 {
			t.Fatal("expected stored entry to receive an id")
		}
		if stored.CreatedAt.IsZero() {
			t.Fatal("expected stored entry to receive a timestamp")
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].JobID != "job-3" || recent[1].JobID != "job-2" {
		t.Fatalf("recent order = [%s %s], want newest first [job-3 job-2]", recent[0].JobID, recent[1].JobID)
	}

	got := recent[1]
	if got.InputPath != "/in/b.pdf" || got.OutputPath != "/out/b.pdf" {
		t.Fatalf("paths = %q -> %q, want /in/b.pdf -> /out/b.pdf", got.InputPath, got.OutputPath)
	}
	if got.Preset != "screen" {
		t.Fatalf("preset = %q, want screen", got.Preset)
	}
	if got.OriginalSizeBytes != 8<<20 || got.CompressedSizeBytes != 2<<20 {
		t.Fatalf("sizes = %d/%d, want %d/%d", got.OriginalSizeBytes, got.CompressedSizeBytes, 8<<20, 2<<20)
	}
}

func TestStoreRecentDefaultLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := store.Append(ctx, Entry{JobID: "job", InputPath: "/in.pdf", OutputPath: "/out.pdf", Preset: "ebook"}); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 20 {
		t.Fatalf("len(recent) = %d, want default limit 20", len(recent))
	}
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, Entry{JobID: "job-1", InputPath: "/in.pdf", OutputPath: "/out.pdf", Preset: "ebook"}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("len(recent) = %d after clear, want 0", len(recent))
	}
}

func TestStoreReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	stored, err := store.Append(ctx, Entry{
		JobID:               "job-1",
		InputPath:           "/in.pdf",
		OutputPath:          "/out.pdf",
		Preset:              "printer",
		OriginalSizeBytes:   1000,
		CompressedSizeBytes: 400,
		CreatedAt:           time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("len(recent) = %d after reopen, want 1", len(recent))
	}
	if recent[0].ID != stored.ID || recent[0].Preset != "printer" {
		t.Fatalf("entry = id=%d preset=%q, want id=%d preset=printer", recent[0].ID, recent[0].Preset, stored.ID)
	}
	if !recent[0].CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("createdAt = %v, want %v", recent[0].CreatedAt, stored.CreatedAt)
	}
}

func TestEntryReductionPercent(t *testing.T) {
	entry := Entry{OriginalSizeBytes: 10 << 20, CompressedSizeBytes: 4 << 20}
	if got := entry.ReductionPercent(); got < 59.9 || got > 60.1 {
		t.Fatalf("ReductionPercent() = %v, want ~60", got)
	}

	zero := Entry{OriginalSizeBytes: 0, CompressedSizeBytes: 100}
	if got := zero.ReductionPercent(); got != 0 {
		t.Fatalf("ReductionPercent() with zero original = %v, want 0", got)
	}
}
