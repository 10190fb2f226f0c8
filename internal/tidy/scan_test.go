package tidy_test

import (
	"errors"
	"testing"
	"time"

	"tidy-go/internal/testutil"
	"tidy-go/internal/tidy"
)

func TestSummarizeScan(t *testing.T) {
	now := testutil.FixedClock().Now()

	t.Run("empty input yields zero summary", func(t *testing.T) {
		got := tidy.SummarizeScan(nil, now)
		if got != (tidy.ScanSummary{}) {
			t.Errorf("SummarizeScan(nil) = %+v, want zero summary", got)
		}
	})

	t.Run("counts each status", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Status: tidy.StatusPending, ModifiedAt: now},
			{ID: "f2", Status: tidy.StatusPending, ModifiedAt: now},
			{ID: "f3", Status: tidy.StatusReady},
			{ID: "f4", Status: tidy.StatusCompleted},
			{ID: "f5", Status: tidy.StatusCompleted},
			{ID: "f6", Status: tidy.StatusSkipped},
		}
		got := tidy.SummarizeScan(files, now)
		if got.Pending != 2 || got.Ready != 1 || got.Completed != 2 || got.Skipped != 1 {
			t.Errorf("SummarizeScan() = %+v, want {2 1 2 1}", got)
		}
		if got.Total() != 6 {
			t.Errorf("Total() = %d, want 6", got.Total())
		}
	})

	t.Run("mixed ages report oldest pending in whole days", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Size: 100, Status: tidy.StatusPending, ModifiedAt: now.Add(-2 * time.Hour)},
			{ID: "f2", Size: 200, Status: tidy.StatusReady, ModifiedAt: now.AddDate(0, 0, -1)},
			{ID: "f3", Size: 50, Status: tidy.StatusCompleted, ModifiedAt: now.AddDate(0, 0, -20)},
		}
		got := tidy.SummarizeScan(files, now)
		want := tidy.ScanSummary{Pending: 1, Ready: 1, Completed: 1}
		if got != want {
			t.Errorf("SummarizeScan() = %+v, want %+v", got, want)
		}
	})

	t.Run("oldest pending wins over newer pending", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Status: tidy.StatusPending, ModifiedAt: now.AddDate(0, 0, -3)},
			{ID: "f2", Status: tidy.StatusPending, ModifiedAt: now.AddDate(0, 0, -10)},
			{ID: "f3", Status: tidy.StatusPending, ModifiedAt: now.AddDate(0, 0, -7)},
		}
		got := tidy.SummarizeScan(files, now)
		if got.OldestPendingAgeDays != 10 {
			t.Errorf("OldestPendingAgeDays = %d, want 10", got.OldestPendingAgeDays)
		}
	})

	t.Run("age truncates to whole days", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Status: tidy.StatusPending, ModifiedAt: now.Add(-47 * time.Hour)},
		}
		got := tidy.SummarizeScan(files, now)
		if got.OldestPendingAgeDays != 1 {
			t.Errorf("OldestPendingAgeDays = %d, want 1", got.OldestPendingAgeDays)
		}
	})

	t.Run("non-pending ages are ignored", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Status: tidy.StatusCompleted, ModifiedAt: now.AddDate(0, 0, -100)},
			{ID: "f2", Status: tidy.StatusPending, ModifiedAt: now.AddDate(0, 0, -2)},
		}
		got := tidy.SummarizeScan(files, now)
		if got.OldestPendingAgeDays != 2 {
			t.Errorf("OldestPendingAgeDays = %d, want 2", got.OldestPendingAgeDays)
		}
	})

	t.Run("future modification date does not go negative", func(t *testing.T) {
		files := []tidy.FileRecord{
			{ID: "f1", Status: tidy.StatusPending, ModifiedAt: now.Add(48 * time.Hour)},
		}
		got := tidy.SummarizeScan(files, now)
		if got.OldestPendingAgeDays != 0 {
			t.Errorf("OldestPendingAgeDays = %d, want 0", got.OldestPendingAgeDays)
		}
	})
}

func TestScanOutcome_Err(t *testing.T) {
	t.Run("timeout is a hard error", func(t *testing.T) {
		o := &tidy.ScanOutcome{TimedOut: true}
		if !errors.Is(o.Err(), tidy.ErrScanTimeout) {
			t.Errorf("Err() = %v, want ErrScanTimeout", o.Err())
		}
	})

	t.Run("partial errors are not fatal", func(t *testing.T) {
		o := &tidy.ScanOutcome{ErrorSummary: "3 files could not be read"}
		if err := o.Err(); err != nil {
			t.Errorf("Err() = %v, want nil", err)
		}
	})
}
