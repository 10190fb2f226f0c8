package tidy

import (
	"context"
	"fmt"
	"sync"
)

// SnapshotRecorder maintains one storage snapshot per calendar day, with
// delta-from-previous tracking and retention pruning.
type SnapshotRecorder struct {
	store         Store
	clock         Clock
	idgen         IDGenerator
	logger        Logger
	retentionDays int

	// mu makes the existence check and the insert behave as one idempotent
	// unit per calendar day: they are not atomic against concurrent callers
	// at the store level.
	mu sync.Mutex
}

func NewSnapshotRecorder(store Store, clock Clock, idgen IDGenerator, logger Logger, retentionDays int) *SnapshotRecorder {
	return &SnapshotRecorder{
		store:         store,
		clock:         clock,
		idgen:         idgen,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// RecordDailySnapshotIfNeeded records a snapshot for today unless one already
// exists, then prunes snapshots older than the retention window. Calling it
// twice in the same local day is a no-op the second time.
func (r *SnapshotRecorder) RecordDailySnapshotIfNeeded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	day := StartOfDay(now)
	nextDay := day.AddDate(0, 0, 1)

	existing, err := r.store.SnapshotForDay(ctx, day, nextDay)
	if err != nil {
		return fmt.Errorf("checking for existing snapshot: %w", err)
	}
	if existing != nil {
		r.logger.Debug("snapshot already recorded", "day", day)
		return nil
	}

	files, err := r.store.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}
	analytics := ComputeStorageAnalytics(files)

	prev, err := r.store.LatestSnapshotBefore(ctx, day)
	if err != nil {
		return fmt.Errorf("finding previous snapshot: %w", err)
	}

	// The delta is computed once here and frozen; it is never recomputed
	// when history changes.
	var delta *int64
	if prev != nil {
		d := analytics.TotalBytes - prev.TotalBytes
		delta = &d
	}

	snap := &StorageSnapshot{
		ID:            r.idgen.New(),
		Day:           day,
		TotalBytes:    analytics.TotalBytes,
		FileCount:     analytics.FileCount,
		CategoryBytes: analytics.CategoryBytes,
		DeltaBytes:    delta,
	}
	if err := r.store.InsertSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	// Inclusive cutoff: the snapshot at exactly now - retentionDays stays.
	cutoff := day.AddDate(0, 0, -r.retentionDays)
	pruned, err := r.store.DeleteSnapshotsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}

	r.logger.Info("daily snapshot recorded",
		"day", day, "totalBytes", analytics.TotalBytes, "files", analytics.FileCount, "pruned", pruned)
	return nil
}
