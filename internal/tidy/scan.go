package tidy

import (
	"errors"
	"time"
)

// ErrScanTimeout marks a scan that ran out of time. A timeout is a hard
// failure, distinct from partial per-file errors which are surfaced as a
// non-fatal summary string alongside otherwise-successful results.
var ErrScanTimeout = errors.New("scan timed out")

// ScanOutcome is the raw output of the scanning collaborator.
type ScanOutcome struct {
	Files        []FileRecord
	TimedOut     bool
	ErrorSummary string
}

// Err returns ErrScanTimeout when the scan timed out, nil otherwise.
func (o *ScanOutcome) Err() error {
	if o.TimedOut {
		return ErrScanTimeout
	}
	return nil
}

// ScanSummary holds per-status counts for one scan plus the age of the
// oldest file still pending.
type ScanSummary struct {
	Pending   int
	Ready     int
	Completed int
	Skipped   int

	// OldestPendingAgeDays is now minus the oldest pending file's
	// modification date, truncated to whole days. 0 when nothing is pending.
	OldestPendingAgeDays int
}

// Total returns the number of records the summary covers.
func (s ScanSummary) Total() int {
	return s.Pending + s.Ready + s.Completed + s.Skipped
}

// SummarizeScan reduces a raw list of scanned file records into summary
// counts. The oldest pending file is found by strict less-than replacement
// in a single pass; on exact modification-date ties the winner depends on
// input order, which is accepted non-determinism.
func SummarizeScan(files []FileRecord, now time.Time) ScanSummary {
	var summary ScanSummary
	var oldestPending time.Time
	havePending := false

	for i := range files {
		f := &files[i]
		switch f.Status {
		case StatusPending:
			summary.Pending++
			if !havePending || f.ModifiedAt.Before(oldestPending) {
				oldestPending = f.ModifiedAt
				havePending = true
			}
		case StatusReady:
			summary.Ready++
		case StatusCompleted:
			summary.Completed++
		case StatusSkipped:
			summary.Skipped++
		}
	}

	if havePending {
		age := now.Sub(oldestPending)
		if age > 0 {
			summary.OldestPendingAgeDays = int(age.Hours() / 24)
		}
	}

	return summary
}
