package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy-go/internal/scan"
	"tidy-go/internal/testutil"
	"tidy-go/internal/tidy"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestScanner(destinations map[tidy.FileCategory]string) *scan.Scanner {
	return scan.NewScanner(tidy.RealClock{}, testutil.NewStubIDGenerator(), tidy.NewNopLogger(),
		time.Minute, destinations)
}

func TestScanner_Scan(t *testing.T) {
	t.Run("discovers files with category and metadata", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "report.pdf")
		writeFile(t, dir, "photo.jpg")

		outcome := newTestScanner(nil).Scan([]string{dir})
		if err := outcome.Err(); err != nil {
			t.Fatalf("Err() = %v", err)
		}
		if len(outcome.Files) != 2 {
			t.Fatalf("file count = %d, want 2", len(outcome.Files))
		}

		byName := make(map[string]tidy.FileRecord)
		for _, f := range outcome.Files {
			byName[f.Name] = f
		}
		pdf := byName["report.pdf"]
		if pdf.Category != tidy.CategoryDocuments {
			t.Errorf("category = %s, want documents", pdf.Category)
		}
		if pdf.Status != tidy.StatusPending {
			t.Errorf("status = %s, want pending", pdf.Status)
		}
		if pdf.Size != int64(len("content")) {
			t.Errorf("size = %d, want %d", pdf.Size, len("content"))
		}
		if pdf.ID == "" || pdf.ModifiedAt.IsZero() || pdf.AccessedAt.IsZero() {
			t.Errorf("record missing metadata: %+v", pdf)
		}
	})

	t.Run("walks into subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "nested")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, sub, "deep.txt")

		outcome := newTestScanner(nil).Scan([]string{dir})
		if len(outcome.Files) != 1 {
			t.Fatalf("file count = %d, want 1", len(outcome.Files))
		}
	})

	t.Run("skips dotfiles and dot directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".DS_Store")
		hidden := filepath.Join(dir, ".cache")
		if err := os.Mkdir(hidden, 0755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, hidden, "inside.txt")
		writeFile(t, dir, "visible.txt")

		outcome := newTestScanner(nil).Scan([]string{dir})
		if len(outcome.Files) != 1 || outcome.Files[0].Name != "visible.txt" {
			t.Errorf("files = %+v, want only visible.txt", outcome.Files)
		}
	})

	t.Run("assigns destinations from the category mapping", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "report.pdf")
		writeFile(t, dir, "mystery.bin")

		outcome := newTestScanner(map[tidy.FileCategory]string{
			tidy.CategoryDocuments: "/sorted/docs",
		}).Scan([]string{dir})

		byName := make(map[string]tidy.FileRecord)
		for _, f := range outcome.Files {
			byName[f.Name] = f
		}
		pdf := byName["report.pdf"]
		if pdf.Destination == nil || pdf.Destination.Path != "/sorted/docs" {
			t.Errorf("destination = %+v, want /sorted/docs", pdf.Destination)
		}
		if pdf.Destination.Kind != tidy.DestinationFolder {
			t.Errorf("destination kind = %s, want folder", pdf.Destination.Kind)
		}
		if byName["mystery.bin"].Destination != nil {
			t.Error("unmapped category got a destination, want none")
		}
	})

	t.Run("missing root is a partial error, not a failure", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ok.txt")

		outcome := newTestScanner(nil).Scan([]string{dir, filepath.Join(dir, "does-not-exist")})
		if err := outcome.Err(); err != nil {
			t.Fatalf("Err() = %v, want nil", err)
		}
		if len(outcome.Files) != 1 {
			t.Errorf("file count = %d, want 1", len(outcome.Files))
		}
		if outcome.ErrorSummary == "" {
			t.Error("ErrorSummary empty, want mention of the missing root")
		}
	})

	t.Run("exceeding the timeout marks the outcome", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt")
		writeFile(t, dir, "b.txt")

		// Each Now() call advances by a second, so the deadline has passed
		// by the time the first entry is visited.
		clock := &tickingClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
		scanner := scan.NewScanner(clock, testutil.NewStubIDGenerator(), tidy.NewNopLogger(),
			time.Millisecond, nil)

		outcome := scanner.Scan([]string{dir})
		if !outcome.TimedOut {
			t.Fatal("TimedOut = false, want true")
		}
		if !errors.Is(outcome.Err(), tidy.ErrScanTimeout) {
			t.Errorf("Err() = %v, want ErrScanTimeout", outcome.Err())
		}
	})
}
